// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package keypath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{name: "empty", parts: nil, want: ""},
		{name: "single", parts: []string{"home"}, want: "home"},
		{name: "composite field", parts: []string{"home", "x"}, want: "home.x"},
		{name: "skips empty base", parts: []string{"", "x"}, want: "x"},
		{name: "nested", parts: []string{"a.b", "c"}, want: "a.b.c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Join(tt.parts...); got != tt.want {
				t.Errorf("Join(%q) = %q, want %q", tt.parts, got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	if got := Split(""); got != nil {
		t.Errorf("Split(\"\") = %q, want nil", got)
	}
	if diff := cmp.Diff([]string{"players", "count"}, Split("players.count")); diff != "" {
		t.Errorf("Split mismatch (-want +got):\n%s", diff)
	}
}

func TestParentBase(t *testing.T) {
	tests := []struct {
		path, parent, base string
	}{
		{"home", "", "home"},
		{"home.world", "home", "world"},
		{"a.b.c", "a.b", "c"},
	}
	for _, tt := range tests {
		if got := Parent(tt.path); got != tt.parent {
			t.Errorf("Parent(%q) = %q, want %q", tt.path, got, tt.parent)
		}
		if got := Base(tt.path); got != tt.base {
			t.Errorf("Base(%q) = %q, want %q", tt.path, got, tt.base)
		}
	}
}

func TestIndex(t *testing.T) {
	if got := Index("chest", 3); got != "chest.3" {
		t.Errorf("Index = %q", got)
	}
}

func TestValidate(t *testing.T) {
	for _, ok := range []string{"", "a", "a.b.c", "Spawn.World_1"} {
		if err := Validate(ok); err != nil {
			t.Errorf("Validate(%q) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{".", "a.", ".a", "a..b"} {
		if err := Validate(bad); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Validate(%q) = %v, want ErrInvalidPath", bad, err)
		}
	}
}

func TestHasPrefix(t *testing.T) {
	tests := []struct {
		path, ancestor string
		want           bool
	}{
		{"a.b.c", "", true},
		{"a.b.c", "a", true},
		{"a.b.c", "a.b", true},
		{"a.b.c", "a.b.c", true},
		{"a.bc", "a.b", false},
		{"a", "a.b", false},
		{"Home.x", "home", false},
	}
	for _, tt := range tests {
		if got := HasPrefix(tt.path, tt.ancestor); got != tt.want {
			t.Errorf("HasPrefix(%q, %q) = %v, want %v", tt.path, tt.ancestor, got, tt.want)
		}
	}
}
