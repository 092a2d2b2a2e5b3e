// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTripStringsAndVarint(t *testing.T) {
	require := require.New(t)

	var b []byte
	b = AppendString(b, 1, "hello")
	b = AppendStrings(b, 2, []string{"a", "b", "c"})
	b = AppendVarint(b, 3, 42)

	var gotString string
	var gotStrings []string
	var gotVarint uint64

	err := Walk(b, func(f Field) error {
		switch f.Num {
		case 1:
			gotString = string(f.Raw)
		case 2:
			gotStrings = append(gotStrings, string(f.Raw))
		case 3:
			gotVarint = f.Varint
		}
		return nil
	})

	require.NoError(err)
	require.Equal("hello", gotString)
	require.Equal([]string{"a", "b", "c"}, gotStrings)
	require.Equal(uint64(42), gotVarint)
}

func TestZeroValuesOmitted(t *testing.T) {
	require := require.New(t)

	var b []byte
	b = AppendString(b, 1, "")
	b = AppendVarint(b, 2, 0)
	b = AppendMessage(b, 3, nil)
	require.Empty(b)
}

func TestWalkBadTagErrors(t *testing.T) {
	require := require.New(t)

	err := Walk([]byte{0xFF}, func(Field) error { return nil })
	require.Error(err)
}

func TestAppendMessageNested(t *testing.T) {
	require := require.New(t)

	var inner []byte
	inner = AppendString(inner, 1, "nested")

	var outer []byte
	outer = AppendMessage(outer, 5, inner)

	var gotNested string
	err := Walk(outer, func(f Field) error {
		if f.Num == 5 {
			return Walk(f.Raw, func(inner Field) error {
				if inner.Num == 1 {
					gotNested = string(inner.Raw)
				}
				return nil
			})
		}
		return nil
	})
	require.NoError(err)
	require.Equal("nested", gotNested)
}
