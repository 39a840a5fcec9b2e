// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"

	"github.com/ManuGH/plugconf/pkg/config"
)

// checkOne loads file and decodes every expectation against it.
func (a *app) checkOne(ctx context.Context, file string, expectations []expectation) error {
	c, err := config.Open(ctx, file, a.options()...)
	if err != nil {
		return err
	}
	var errs []error
	for _, e := range expectations {
		like, err := lookupKind(e.typ)
		if err != nil {
			return err
		}
		if _, err := c.Get(e.path, like); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
