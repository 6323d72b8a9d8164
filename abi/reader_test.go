// Copyright 2025 The evmbridge Authors
// This file is part of the evmbridge library.
//
// The evmbridge library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The evmbridge library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the evmbridge library. If not, see <http://www.gnu.org/licenses/>.

package abi

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderScalars(t *testing.T) {
	r := NewReader(words(
		"00000000000000000000000000000000000000000000000000000000000000ff",
		"000000000000000000000000000000000000000000000000ffffffffffffffff",
		"0000000000000000000000000000000000000000000000000000000000000001",
		"000000000000000000000000deadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
		"6869000000000000000000000000000000000000000000000000000000000000",
	))
	u8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xff), u8)

	u64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0xffffffffffffffff), u64)

	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	addr, err := r.ReadAddress()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"), addr)

	fixed, err := r.ReadFixedBytes(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), fixed)

	assert.Zero(t, r.Remaining())
}

func TestReaderRejects(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		read  func(r *Reader) error
		want  error
	}{
		{
			name:  "empty",
			input: nil,
			read:  func(r *Reader) error { _, err := r.ReadUint256(); return err },
			want:  ErrShortInput,
		},
		{
			name:  "short word",
			input: make([]byte, 31),
			read:  func(r *Reader) error { _, err := r.ReadBool(); return err },
			want:  ErrShortInput,
		},
		{
			name:  "uint8 overflow",
			input: words("0000000000000000000000000000000000000000000000000000000000000100"),
			read:  func(r *Reader) error { _, err := r.ReadUint8(); return err },
			want:  ErrBadPadding,
		},
		{
			name:  "uint32 overflow",
			input: words("0000000000000000000000000000000000000000000000000000000100000000"),
			read:  func(r *Reader) error { _, err := r.ReadUint32(); return err },
			want:  ErrBadPadding,
		},
		{
			name:  "uint128 overflow",
			input: words("0000000000000000000000000000000100000000000000000000000000000000"),
			read:  func(r *Reader) error { _, err := r.ReadUint128(); return err },
			want:  ErrBadPadding,
		},
		{
			name:  "bool two",
			input: words("0000000000000000000000000000000000000000000000000000000000000002"),
			read:  func(r *Reader) error { _, err := r.ReadBool(); return err },
			want:  ErrBadBool,
		},
		{
			name:  "dirty address",
			input: words("000000000000000000000001deadbeefdeadbeefdeadbeefdeadbeefdeadbeef"),
			read:  func(r *Reader) error { _, err := r.ReadAddress(); return err },
			want:  ErrBadPadding,
		},
		{
			name:  "dirty fixed bytes",
			input: words("6869000000000000000000000000000000000000000000000000000000000001"),
			read:  func(r *Reader) error { _, err := r.ReadFixedBytes(2); return err },
			want:  ErrBadPadding,
		},
		{
			name:  "offset past end",
			input: words("0000000000000000000000000000000000000000000000000000000000000040"),
			read:  func(r *Reader) error { _, err := r.ReadBytes(); return err },
			want:  ErrOffsetOutOfBounds,
		},
		{
			name:  "huge offset",
			input: words("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
			read:  func(r *Reader) error { _, err := r.ReadString(); return err },
			want:  ErrOffsetOutOfBounds,
		},
		{
			name: "bytes length past end",
			input: words(
				"0000000000000000000000000000000000000000000000000000000000000020",
				"0000000000000000000000000000000000000000000000000000000000000021",
				"6869000000000000000000000000000000000000000000000000000000000000",
			),
			read: func(r *Reader) error { _, err := r.ReadBytes(); return err },
			want: ErrOffsetOutOfBounds,
		},
		{
			name:  "offset to end leaves no length",
			input: words("0000000000000000000000000000000000000000000000000000000000000020"),
			read:  func(r *Reader) error { _, err := r.ReadBytes(); return err },
			want:  ErrShortInput,
		},
		{
			name: "array length past end",
			input: words(
				"0000000000000000000000000000000000000000000000000000000000000020",
				"0000000000000000000000000000000000000000000000000000000000000002",
				"0000000000000000000000000000000000000000000000000000000000000001",
			),
			read: func(r *Reader) error { _, err := r.ReadUint256Array(); return err },
			want: ErrOffsetOutOfBounds,
		},
		{
			name: "array length overflow",
			input: words(
				"0000000000000000000000000000000000000000000000000000000000000020",
				"00000000000000000000000000000000000000000000000000000000ffffffff",
			),
			read: func(r *Reader) error { _, err := r.ReadUint32Array(); return err },
			want: ErrOffsetOutOfBounds,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("have error %v, want %v", err, tt.want)
			}
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("error %v is not a *DecodeError", err)
			}
		})
	}
}

func TestReaderDynamicDoesNotMoveOuterPastHead(t *testing.T) {
	w := NewWriter()
	w.WriteString("first")
	w.WriteUint64(42)
	r := NewReader(w.Finish())

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "first", s)
	assert.Equal(t, WordSize, r.Offset())

	v, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}

func TestSplitCall(t *testing.T) {
	_, _, err := SplitCall([]byte{0xa9, 0x05, 0x9c})
	require.ErrorIs(t, err, ErrNoSelector)

	sel, r, err := SplitCall(words("a9059cbb", "0000000000000000000000000000000000000000000000000000000000000007"))
	require.NoError(t, err)
	assert.Equal(t, SelectorOf("transfer(address,uint256)"), sel)
	v, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
}
