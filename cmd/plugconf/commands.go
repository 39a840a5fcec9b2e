// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ManuGH/plugconf/pkg/config"
	"github.com/ManuGH/plugconf/pkg/tree"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

func (a *app) getCmd() *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print the value stored at a path",
		Long: `Print the value stored at a path.

Without --type the raw YAML below the path is printed. With --type the value
is decoded as that type and the command fails if it does not decode.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			path := args[1]

			if typ == "" {
				n, ok := c.GetValue(path)
				if !ok {
					return fmt.Errorf("%s: %w", path, config.ErrMissingField)
				}
				out, err := yaml.Marshal(n)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}

			like, err := lookupKind(typ)
			if err != nil {
				return err
			}
			v, err := c.Get(path, like)
			if err != nil {
				return err
			}
			s, err := formatValue(v)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "decode as this type ("+kindNames()+")")
	return cmd
}

func (a *app) setCmd() *cobra.Command {
	var (
		typ         string
		onlyDefault bool
	)
	cmd := &cobra.Command{
		Use:   "set <file> <path> <value>",
		Short: "Write a value and save the document",
		Long: `Write a value and save the document.

The value is read according to --type. "auto" reads it as a YAML scalar, so
5 is an int, 1.5 a double and true a bool. Lists are comma separated, a
location is world,x,y,z[,yaw,pitch] and a chunk is world,x,z.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := parseValue(typ, args[2])
			if err != nil {
				return err
			}
			c, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			if onlyDefault {
				err = c.SetDefaultValue(args[1], v)
			} else {
				err = c.SetValue(args[1], v)
			}
			if err != nil {
				return err
			}
			return c.Save(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "auto", "value type (auto, null, string, int, bool, double, float, long, uuid, date, string-list, int-list, world, location, chunk)")
	cmd.Flags().BoolVar(&onlyDefault, "default", false, "only write when the path does not exist yet")
	return cmd
}

func (a *app) keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys <file> [path]",
		Short: "List the keys of the document or of a section",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			keys := c.GetKeys()
			if len(args) == 2 {
				if keys, err = c.GetKeysAt(args[1]); err != nil {
					return err
				}
			}
			for _, k := range keys {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), k); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) defaultsCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "defaults <file> <template>",
		Short: "Copy missing values from a template document",
		Long: `Copy every value of the template that is missing from the document, then
save. Existing values are never overwritten.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			template, err := tree.Load(args[1])
			if err != nil {
				return err
			}
			n, err := c.ApplyDefaults(template)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%d default(s) applied to %s\n", n, c.File()); err != nil {
				return err
			}
			if dryRun || n == 0 {
				return nil
			}
			return c.Save(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without saving")
	return cmd
}

// expectation is a path that must decode as a type.
type expectation struct {
	path string
	typ  string
}

func parseExpectations(specs []string) ([]expectation, error) {
	out := make([]expectation, 0, len(specs))
	for _, s := range specs {
		path, typ, ok := strings.Cut(s, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("expectation %q: want path=type", s)
		}
		if _, err := lookupKind(typ); err != nil {
			return nil, fmt.Errorf("expectation %q: %w", s, err)
		}
		out = append(out, expectation{path: path, typ: typ})
	}
	return out, nil
}

func (a *app) checkCmd() *cobra.Command {
	var (
		expect []string
		jobs   int
	)
	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate documents",
		Long: `Load every document concurrently and report the ones that fail to parse.
Each --expect path=type must also decode as that type.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expectations, err := parseExpectations(expect)
			if err != nil {
				return err
			}

			results := make([]error, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(jobs, 1))
			for i, file := range args {
				g.Go(func() error {
					results[i] = a.checkOne(ctx, file, expectations)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			failed := 0
			out := cmd.OutOrStdout()
			for i, file := range args {
				if results[i] != nil {
					failed++
					_, _ = fmt.Fprintf(out, "FAIL %s: %v\n", file, results[i])
					continue
				}
				_, _ = fmt.Fprintf(out, "ok   %s\n", file)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d document(s) failed: %w", failed, len(args), errors.Join(results...))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&expect, "expect", nil, "require path=type to decode (repeatable)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "documents checked in parallel")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Follow a document and report every reload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			reloaded := make(chan struct{}, 1)
			c.RegisterListener(reloaded)
			if err := c.Watch(ctx); err != nil {
				return err
			}
			defer c.Stop()

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "watching %s\n", c.File())
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-reloaded:
					_, _ = fmt.Fprintf(out, "reloaded %s: %s\n", c.File(), strings.Join(c.GetKeys(), ", "))
				}
			}
		},
	}
}
