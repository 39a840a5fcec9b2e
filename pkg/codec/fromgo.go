// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package codec

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FromGo lifts a native Go value into the Value sum type. Values that are
// already a Value are returned unchanged; nil becomes Null.
func FromGo(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case int:
		return Int(v), nil
	case int32:
		return Int(v), nil
	case int64:
		return Long(v), nil
	case bool:
		return Bool(v), nil
	case float64:
		return Double(v), nil
	case float32:
		return Float(v), nil
	case []string:
		return StringList(v), nil
	case []int:
		return IntList(v), nil
	case time.Time:
		return Date(v), nil
	case uuid.UUID:
		return UUID(v), nil
	default:
		return nil, fmt.Errorf("%w: no encoding for %T", ErrInvalidValue, v)
	}
}
