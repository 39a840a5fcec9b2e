// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package codec

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ManuGH/plugconf/pkg/tree"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var sounds = NewEnumType("sound", "ENTITY_PLAYER_LEVELUP", "BLOCK_NOTE_BLOCK_PLING")

func newTestRegistry() *Registry {
	return NewRegistry(Capabilities{
		Worlds: StaticWorlds("world", "world_nether"),
		Enums:  []*EnumType{sounds},
	})
}

func parse(t *testing.T, src string) *tree.Document {
	t.Helper()
	doc, err := tree.Parse([]byte(src))
	require.NoError(t, err)
	return doc
}

// roundTrip writes v at path, serializes the document, parses it back and
// decodes path as v's variant.
func roundTrip(t *testing.T, r *Registry, path string, v Value) Value {
	t.Helper()
	doc := tree.New()
	require.NoError(t, r.Write(doc, path, v))

	data, err := doc.Marshal()
	require.NoError(t, err)
	loaded, err := tree.Parse(data)
	require.NoError(t, err, string(data))

	got, err := r.Decode(loaded, path, v)
	require.NoError(t, err, string(data))
	return got
}

func TestRoundTrip(t *testing.T) {
	r := newTestRegistry()
	now := time.UnixMilli(time.Now().UnixMilli())
	id := uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479")

	tests := []struct {
		name string
		v    Value
	}{
		{"null", Null{}},
		{"string", String("hello world")},
		{"numeric string", String("123")},
		{"boolean-looking string", String("true")},
		{"empty string", String("")},
		{"int", Int(5)},
		{"negative int", Int(-42)},
		{"bool", Bool(true)},
		{"double", Double(3.141592653589793)},
		{"whole double", Double(2)},
		{"float", Float(90.5)},
		{"tiny float", Float(0.1)},
		{"string list", StringList{"a", "b", "42"}},
		{"empty string list", StringList{}},
		{"int list", IntList{1, 2, 3}},
		{"long max", Long(math.MaxInt64)},
		{"long min", Long(math.MinInt64)},
		{"uuid", UUID(id)},
		{"enum", Enum{Type: "sound", Name: "ENTITY_PLAYER_LEVELUP"}},
		{"location", Location{World: NamedWorld("world"), X: 1, Y: 2, Z: 3, Yaw: 90, Pitch: -12.5}},
		{"chunk", Chunk{World: NamedWorld("world_nether"), X: -3, Z: 7}},
		{"world", WorldRef{World: NamedWorld("world")}},
		{"inventory", Inventory{Slots: []any{
			map[string]any{"type": "DIAMOND", "amount": 3},
			nil,
			"STONE",
		}}},
		{"empty inventory", Inventory{Slots: []any{}}},
		{"item", Item{Value: map[string]any{"type": "BREAD", "amount": 16}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, r, "section.value", tt.v)
			if diff := cmp.Diff(tt.v, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("date", func(t *testing.T) {
		got := roundTrip(t, r, "when", Date(now))
		assert.True(t, now.Equal(time.Time(got.(Date))), "got %v want %v", time.Time(got.(Date)), now)
	})
}

func TestLong_StoredAsString(t *testing.T) {
	r := newTestRegistry()
	doc := tree.New()
	require.NoError(t, r.Write(doc, "big", Long(math.MaxInt64)))

	n, ok := doc.Get("big")
	require.True(t, ok)
	assert.Equal(t, tree.TagStr, n.ShortTag())
	assert.Equal(t, "9223372036854775807", n.Value)

	data, err := doc.Marshal()
	require.NoError(t, err)
	assert.Equal(t, "big: \"9223372036854775807\"\n", string(data))

	got, err := r.DecodeLong(doc, "big")
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), got)
}

func TestLocation_Layout(t *testing.T) {
	r := newTestRegistry()
	doc := tree.New()
	loc := Location{World: NamedWorld("world"), X: 1, Y: 2, Z: 3, Yaw: 90, Pitch: 0}
	require.NoError(t, r.Write(doc, "home", loc))

	keys, err := doc.ChildKeys("home")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z", "pitch", "yaw", "world"}, keys)
}

func TestNumericFidelity(t *testing.T) {
	r := newTestRegistry()
	doc := parse(t, `
ratio: 1.5
count: 5
text: "5"
flag: yes
truth: true
huge: 1e39
big: 9007199254740993
handlong: 42
badlong: "12abc"
floatlong: "1.5"
`)

	tests := []struct {
		name   string
		decode func() error
		want   error
	}{
		{"int from float", func() error { _, err := r.DecodeInt(doc, "ratio"); return err }, ErrTypeMismatch},
		{"int from string", func() error { _, err := r.DecodeInt(doc, "text"); return err }, ErrTypeMismatch},
		{"bool from yes", func() error { _, err := r.DecodeBool(doc, "flag"); return err }, ErrTypeMismatch},
		{"bool from int", func() error { _, err := r.DecodeBool(doc, "count"); return err }, ErrTypeMismatch},
		{"double from string", func() error { _, err := r.DecodeDouble(doc, "text"); return err }, ErrTypeMismatch},
		{"float out of range", func() error { _, err := r.DecodeFloat(doc, "huge"); return err }, ErrTypeMismatch},
		{"long garbage", func() error { _, err := r.DecodeLong(doc, "badlong"); return err }, ErrTypeMismatch},
		{"long from float string", func() error { _, err := r.DecodeLong(doc, "floatlong"); return err }, ErrTypeMismatch},
		{"long from float", func() error { _, err := r.DecodeLong(doc, "ratio"); return err }, ErrTypeMismatch},
		{"int missing", func() error { _, err := r.DecodeInt(doc, "nope"); return err }, ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	d, err := r.DecodeDouble(doc, "count")
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)

	b, err := r.DecodeBool(doc, "truth")
	require.NoError(t, err)
	assert.True(t, b)

	l, err := r.DecodeLong(doc, "handlong")
	require.NoError(t, err)
	assert.Equal(t, int64(42), l)

	big, err := r.DecodeLong(doc, "big")
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), big)

	s, err := r.DecodeString(doc, "count")
	require.NoError(t, err)
	assert.Equal(t, "5", s)
}

func TestDecodeError_Details(t *testing.T) {
	r := newTestRegistry()
	doc := parse(t, "count: 1.5\n")

	_, err := r.DecodeInt(doc, "count")
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "count", de.Path)
	assert.Equal(t, tree.TagInt, de.Expected)
	assert.Equal(t, tree.TagFloat, de.Actual)
	assert.Contains(t, err.Error(), `decode "count": type mismatch`)
}

func TestNullCountsAsMissing(t *testing.T) {
	r := newTestRegistry()
	doc := parse(t, "gone: null\n")
	_, err := r.DecodeString(doc, "gone")
	assert.ErrorIs(t, err, ErrMissingField)

	v, err := r.Decode(doc, "gone", Null{})
	require.NoError(t, err)
	assert.Equal(t, Null{}, v)
}

func TestStringRejectsCollections(t *testing.T) {
	r := newTestRegistry()
	doc := parse(t, "m:\n  a: 1\nl: [1]\n")
	_, err := r.DecodeString(doc, "m")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = r.DecodeString(doc, "l")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestLists(t *testing.T) {
	r := newTestRegistry()
	doc := parse(t, "names: [a, 1, true]\nnums: [1, two]\nmixed: [a, [b]]\nscalar: x\n")

	names, err := r.DecodeStringList(doc, "names")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "1", "true"}, names)

	_, err = r.DecodeIntList(doc, "nums")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = r.DecodeStringList(doc, "mixed")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = r.DecodeStringList(doc, "scalar")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = r.DecodeStringList(doc, "absent")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestUUID_Invalid(t *testing.T) {
	r := newTestRegistry()
	doc := parse(t, "id: not-a-uuid\n")
	_, err := r.DecodeUUID(doc, "id")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestEnum(t *testing.T) {
	r := newTestRegistry()
	doc := parse(t, "good: BLOCK_NOTE_BLOCK_PLING\nbad: block_note_block_pling\n")

	e, err := r.DecodeEnum(doc, "good", "sound")
	require.NoError(t, err)
	assert.Equal(t, Enum{Type: "sound", Name: "BLOCK_NOTE_BLOCK_PLING"}, e)

	_, err = r.DecodeEnum(doc, "bad", "sound")
	assert.ErrorIs(t, err, ErrInvalidEnumValue)

	_, err = r.DecodeEnum(doc, "good", "particle")
	assert.ErrorIs(t, err, ErrUnknownEnum)

	// absence wins over the missing table
	_, err = r.DecodeEnum(doc, "absent", "particle")
	assert.ErrorIs(t, err, ErrMissingField)
	assert.NotErrorIs(t, err, ErrUnknownEnum)

	_, err = r.Encode(Enum{Type: "sound", Name: "NOPE"})
	assert.ErrorIs(t, err, ErrInvalidEnumValue)

	// unregistered enum types are written verbatim
	_, err = r.Encode(Enum{Type: "particle", Name: "FLAME"})
	assert.NoError(t, err)
}

func TestLocation_Partial(t *testing.T) {
	r := newTestRegistry()

	tests := []struct {
		name     string
		src      string
		want     error
		wantPath string
	}{
		{
			name:     "absent",
			src:      "other: 1\n",
			want:     ErrMissingField,
			wantPath: "home",
		},
		{
			name:     "missing world",
			src:      "home:\n  x: 1.0\n  y: 2.0\n  z: 3.0\n  pitch: 0.0\n  yaw: 0.0\n",
			want:     ErrMissingField,
			wantPath: "home.world",
		},
		{
			name:     "missing yaw",
			src:      "home:\n  x: 1.0\n  y: 2.0\n  z: 3.0\n  pitch: 0.0\n  world: world\n",
			want:     ErrMissingField,
			wantPath: "home.yaw",
		},
		{
			name:     "unknown world",
			src:      "home:\n  x: 1.0\n  y: 2.0\n  z: 3.0\n  pitch: 0.0\n  yaw: 0.0\n  world: the_end\n",
			want:     ErrUnresolvedWorld,
			wantPath: "home.world",
		},
		{
			name:     "scalar instead of section",
			src:      "home: spawn\n",
			want:     ErrTypeMismatch,
			wantPath: "home",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := r.DecodeLocation(parse(t, tt.src), "home")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, Location{}, loc, "no partially populated value")

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.wantPath, de.Path)
		})
	}
}

func TestLocation_NoResolver(t *testing.T) {
	r := NewRegistry(Capabilities{})
	doc := tree.New()
	require.NoError(t, r.Write(doc, "home", Location{World: NamedWorld("world")}))
	_, err := r.DecodeLocation(doc, "home")
	assert.ErrorIs(t, err, ErrUnresolvedWorld)
}

func TestChunk_Unresolved(t *testing.T) {
	r := newTestRegistry()
	doc := parse(t, "c:\n  x: 1\n  z: 2\n  world: nowhere\n")
	_, err := r.DecodeChunk(doc, "c")
	assert.ErrorIs(t, err, ErrUnresolvedWorld)
}

func TestWorld_UnresolvedIsNotAnError(t *testing.T) {
	r := newTestRegistry()
	doc := parse(t, "w: nowhere\nok: world\n")

	w, ok, err := r.DecodeWorld(doc, "w")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, w)

	w, ok, err = r.DecodeWorld(doc, "ok")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "world", w.Name())

	_, _, err = r.DecodeWorld(doc, "absent")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestEncode_NilWorld(t *testing.T) {
	r := newTestRegistry()
	for _, v := range []Value{Location{}, Chunk{}, WorldRef{}} {
		doc := tree.New()
		err := r.Write(doc, "p", v)
		assert.ErrorIs(t, err, ErrInvalidValue, Kind(v))
		assert.Zero(t, doc.Revision(), "nothing written for %s", Kind(v))
	}
}

func TestInventory(t *testing.T) {
	r := newTestRegistry()

	t.Run("absent slots are empty", func(t *testing.T) {
		doc := parse(t, "inv:\n  size: 3\n  1: STONE\n")
		inv, err := r.DecodeInventory(doc, "inv")
		require.NoError(t, err)
		assert.Equal(t, []any{nil, "STONE", nil}, inv.Slots)
	})

	t.Run("missing size", func(t *testing.T) {
		doc := parse(t, "inv:\n  0: STONE\n")
		_, err := r.DecodeInventory(doc, "inv")
		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("negative size", func(t *testing.T) {
		doc := parse(t, "inv:\n  size: -1\n")
		_, err := r.DecodeInventory(doc, "inv")
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("oversized", func(t *testing.T) {
		doc := parse(t, "inv:\n  size: 100000\n")
		_, err := r.DecodeInventory(doc, "inv")
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("sized ignores stored size", func(t *testing.T) {
		doc := parse(t, "inv:\n  size: 1\n  0: A\n  1: B\n")
		inv, err := r.DecodeInventorySized(doc, "inv", 2)
		require.NoError(t, err)
		assert.Equal(t, []any{"A", "B"}, inv.Slots)
	})

	t.Run("layout", func(t *testing.T) {
		doc := tree.New()
		require.NoError(t, r.Write(doc, "inv", Inventory{Slots: []any{"A", nil}}))
		keys, err := doc.ChildKeys("inv")
		require.NoError(t, err)
		assert.Equal(t, []string{"size", "0", "1"}, keys)
	})
}

type failingItems struct{ NodeItemCodec }

func (failingItems) EncodeItem(any) (*yaml.Node, error) { return nil, errors.New("no item codec") }

func TestInventory_EncodeFailureWritesNothing(t *testing.T) {
	r := NewRegistry(Capabilities{Items: failingItems{}})
	doc := tree.New()
	err := r.Write(doc, "inv", Inventory{Slots: []any{"A"}})
	require.Error(t, err)
	assert.False(t, doc.Contains("inv"))
	assert.Zero(t, doc.Revision())
}

func TestInventory_EncodeRejectsOversize(t *testing.T) {
	r := newTestRegistry()
	doc := tree.New()

	err := r.Write(doc, "inv", Inventory{Slots: make([]any, MaxInventorySize+1)})
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Zero(t, doc.Revision())

	require.NoError(t, r.Write(doc, "inv", Inventory{Slots: make([]any, MaxInventorySize)}))
	inv, err := r.DecodeInventory(doc, "inv")
	require.NoError(t, err)
	assert.Len(t, inv.Slots, MaxInventorySize)
}

func TestDecode_DispatchesOnRequestedType(t *testing.T) {
	r := newTestRegistry()
	doc := parse(t, "v: 5\n")

	got, err := r.Decode(doc, "v", Int(0))
	require.NoError(t, err)
	assert.Equal(t, Int(5), got)

	got, err = r.Decode(doc, "v", Double(0))
	require.NoError(t, err)
	assert.Equal(t, Double(5), got)

	got, err = r.Decode(doc, "v", String(""))
	require.NoError(t, err)
	assert.Equal(t, String("5"), got)

	got, err = r.Decode(doc, "v", Bool(false))
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Nil(t, got)
}

func TestWrite_InvalidPath(t *testing.T) {
	r := newTestRegistry()
	doc := tree.New()
	assert.Error(t, r.Write(doc, "", Int(1)))
	assert.Error(t, r.Write(doc, "a..b", Location{World: NamedWorld("world")}))
	assert.Zero(t, doc.Revision())
}

func TestFromGo(t *testing.T) {
	id := uuid.New()
	ts := time.UnixMilli(1700000000000)

	tests := []struct {
		in   any
		want Value
	}{
		{nil, Null{}},
		{"s", String("s")},
		{7, Int(7)},
		{int32(7), Int(7)},
		{int64(7), Long(7)},
		{true, Bool(true)},
		{1.5, Double(1.5)},
		{float32(1.5), Float(1.5)},
		{[]string{"a"}, StringList{"a"}},
		{[]int{1}, IntList{1}},
		{ts, Date(ts)},
		{id, UUID(id)},
		{Int(3), Int(3)},
	}
	for _, tt := range tests {
		got, err := FromGo(tt.in)
		require.NoError(t, err, "%T", tt.in)
		assert.Equal(t, tt.want, got, "%T", tt.in)
	}

	_, err := FromGo(struct{}{})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestEnumType(t *testing.T) {
	assert.Equal(t, "sound", sounds.Name())
	assert.Equal(t, []string{"ENTITY_PLAYER_LEVELUP", "BLOCK_NOTE_BLOCK_PLING"}, sounds.Constants())
	assert.True(t, sounds.Has("ENTITY_PLAYER_LEVELUP"))

	_, err := sounds.Parse("nope")
	assert.ErrorIs(t, err, ErrInvalidEnumValue)
}

func TestZero(t *testing.T) {
	for _, name := range Kinds() {
		z, ok := Zero(name)
		require.True(t, ok, name)
		assert.Equal(t, name, Kind(z))
	}
	_, ok := Zero("enum")
	assert.False(t, ok)
	_, ok = Zero("colour")
	assert.False(t, ok)
}
