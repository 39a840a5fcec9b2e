// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/plugconf/pkg/codec"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

func kindNames() string {
	return strings.Join(codec.Kinds(), ", ")
}

func lookupKind(name string) (codec.Value, error) {
	like, ok := codec.Zero(name)
	if !ok {
		return nil, fmt.Errorf("unknown type %q (known: %s)", name, kindNames())
	}
	return like, nil
}

// parseValue turns a command-line literal into a value of the named type.
// "auto" reads raw as a YAML scalar.
func parseValue(typ, raw string) (codec.Value, error) {
	switch typ {
	case "auto":
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("parse %q: %w", raw, err)
		}
		return codec.FromGo(v)
	case "null":
		return codec.Null{}, nil
	case "string":
		return codec.String(raw), nil
	case "int":
		i, err := strconv.Atoi(raw)
		return result(codec.Int(i), err)
	case "bool":
		b, err := strconv.ParseBool(raw)
		return result(codec.Bool(b), err)
	case "double":
		f, err := strconv.ParseFloat(raw, 64)
		return result(codec.Double(f), err)
	case "float":
		f, err := strconv.ParseFloat(raw, 32)
		return result(codec.Float(float32(f)), err)
	case "long":
		i, err := strconv.ParseInt(raw, 10, 64)
		return result(codec.Long(i), err)
	case "uuid":
		id, err := uuid.Parse(raw)
		return result(codec.UUID(id), err)
	case "date":
		t, err := time.Parse(time.RFC3339, raw)
		return result(codec.Date(t), err)
	case "string-list":
		return codec.StringList(splitList(raw)), nil
	case "int-list":
		parts := splitList(raw)
		out := make(codec.IntList, 0, len(parts))
		for _, p := range parts {
			i, err := strconv.Atoi(p)
			if err != nil {
				return nil, err
			}
			out = append(out, i)
		}
		return out, nil
	case "world":
		return codec.WorldRef{World: codec.NamedWorld(raw)}, nil
	case "location":
		return parseLocation(raw)
	case "chunk":
		return parseChunk(raw)
	default:
		return nil, fmt.Errorf("cannot set values of type %q", typ)
	}
}

func result(v codec.Value, err error) (codec.Value, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseLocation reads "world,x,y,z[,yaw,pitch]".
func parseLocation(raw string) (codec.Value, error) {
	parts := splitList(raw)
	if len(parts) != 4 && len(parts) != 6 {
		return nil, fmt.Errorf("location %q: want world,x,y,z[,yaw,pitch]", raw)
	}
	nums := make([]float64, 0, 5)
	for _, p := range parts[1:] {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("location %q: %w", raw, err)
		}
		nums = append(nums, f)
	}
	loc := codec.Location{World: codec.NamedWorld(parts[0]), X: nums[0], Y: nums[1], Z: nums[2]}
	if len(nums) == 5 {
		loc.Yaw, loc.Pitch = float32(nums[3]), float32(nums[4])
	}
	return loc, nil
}

// parseChunk reads "world,x,z".
func parseChunk(raw string) (codec.Value, error) {
	parts := splitList(raw)
	if len(parts) != 3 {
		return nil, fmt.Errorf("chunk %q: want world,x,z", raw)
	}
	x, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("chunk %q: %w", raw, err)
	}
	z, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("chunk %q: %w", raw, err)
	}
	return codec.Chunk{World: codec.NamedWorld(parts[0]), X: x, Z: z}, nil
}

// formatValue renders a decoded value for terminal output.
func formatValue(v codec.Value) (string, error) {
	switch v := v.(type) {
	case codec.Null:
		return "null", nil
	case codec.String:
		return string(v), nil
	case codec.Int:
		return strconv.Itoa(int(v)), nil
	case codec.Bool:
		return strconv.FormatBool(bool(v)), nil
	case codec.Double:
		return strconv.FormatFloat(float64(v), 'g', -1, 64), nil
	case codec.Float:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	case codec.Long:
		return strconv.FormatInt(int64(v), 10), nil
	case codec.UUID:
		return v.String(), nil
	case codec.Date:
		return v.Time().UTC().Format(time.RFC3339Nano), nil
	case codec.StringList:
		return strings.Join(v, "\n"), nil
	case codec.IntList:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, "\n"), nil
	case codec.Enum:
		return v.Name, nil
	case codec.Location:
		return fmt.Sprintf("%s %g %g %g yaw=%g pitch=%g", v.World.Name(), v.X, v.Y, v.Z, v.Yaw, v.Pitch), nil
	case codec.Chunk:
		return fmt.Sprintf("%s %d %d", v.World.Name(), v.X, v.Z), nil
	case codec.WorldRef:
		return v.World.Name(), nil
	case codec.Inventory:
		return marshalYAML(map[string]any{"size": len(v.Slots), "slots": v.Slots})
	case codec.Item:
		return marshalYAML(v.Value)
	default:
		return "", fmt.Errorf("cannot format %s", codec.Kind(v))
	}
}

func marshalYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}
