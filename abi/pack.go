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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Go representation of dynamically typed values:
//
//	uint8, uint16, uint32, uint64  uintN of the same width
//	*uint256.Int                   every other uintN
//	bool                           bool
//	common.Address                 address
//	[]byte                         bytesN and bytes
//	string                         string
//	[]any                          tuples, T[] and T[k]

// Pack appends v to w according to t.
func Pack(w *Writer, t Type, v any) error {
	switch t.T {
	case UintTy:
		return packUint(w, t, v)
	case BoolTy:
		b, ok := v.(bool)
		if !ok {
			return mismatch(t, v)
		}
		w.WriteBool(b)
	case AddressTy:
		a, ok := v.(common.Address)
		if !ok {
			return mismatch(t, v)
		}
		w.WriteAddress(a)
	case FixedBytesTy:
		b, ok := v.([]byte)
		if !ok || len(b) != t.Size {
			return mismatch(t, v)
		}
		w.WriteFixedBytes(b)
	case BytesTy:
		b, ok := v.([]byte)
		if !ok {
			return mismatch(t, v)
		}
		w.WriteBytes(b)
	case StringTy:
		s, ok := v.(string)
		if !ok {
			return mismatch(t, v)
		}
		w.WriteString(s)
	case TupleTy:
		vs, ok := v.([]any)
		if !ok || len(vs) != len(t.Elems) {
			return mismatch(t, v)
		}
		if t.IsDynamic() {
			w = w.WriteTuple()
		}
		return PackValues(w, t.Elems, vs)
	case SliceTy:
		vs, ok := v.([]any)
		if !ok {
			return mismatch(t, v)
		}
		sub := w.WriteArray(len(vs))
		for _, e := range vs {
			if err := Pack(sub, *t.Elem, e); err != nil {
				return err
			}
		}
	case ArrayTy:
		vs, ok := v.([]any)
		if !ok || len(vs) != t.Size {
			return mismatch(t, v)
		}
		if t.IsDynamic() {
			w = w.WriteTuple()
		}
		for _, e := range vs {
			if err := Pack(w, *t.Elem, e); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %v", errUnsupported, t)
	}
	return nil
}

// PackValues appends a sequence of values as consecutive tuple fields.
func PackValues(w *Writer, ts []Type, vs []any) error {
	if len(ts) != len(vs) {
		return fmt.Errorf("%w: %d values for %d types", errTypeMismatch, len(vs), len(ts))
	}
	for i, t := range ts {
		if err := Pack(w, t, vs[i]); err != nil {
			return err
		}
	}
	return nil
}

func packUint(w *Writer, t Type, v any) error {
	switch x := v.(type) {
	case uint8:
		if t.Size == 8 {
			w.WriteUint8(x)
			return nil
		}
	case uint16:
		if t.Size == 16 {
			w.WriteUint16(x)
			return nil
		}
	case uint32:
		if t.Size == 32 {
			w.WriteUint32(x)
			return nil
		}
	case uint64:
		if t.Size == 64 {
			w.WriteUint64(x)
			return nil
		}
	case *uint256.Int:
		if !nativeWidth(t.Size) && x != nil && x.BitLen() <= t.Size {
			w.WriteUint256(x)
			return nil
		}
	}
	return mismatch(t, v)
}

// Unpack reads one value of type t from r.
func Unpack(r *Reader, t Type) (any, error) {
	switch t.T {
	case UintTy:
		return unpackUint(r, t)
	case BoolTy:
		return r.ReadBool()
	case AddressTy:
		return r.ReadAddress()
	case FixedBytesTy:
		return r.ReadFixedBytes(t.Size)
	case BytesTy:
		return r.ReadBytes()
	case StringTy:
		return r.ReadString()
	case TupleTy:
		if t.IsDynamic() {
			sub, err := r.Dynamic()
			if err != nil {
				return nil, err
			}
			r = sub
		}
		return UnpackValues(r, t.Elems)
	case SliceTy:
		sub, n, err := r.Array()
		if err != nil {
			return nil, err
		}
		return unpackElems(sub, *t.Elem, n)
	case ArrayTy:
		if t.IsDynamic() {
			sub, err := r.Dynamic()
			if err != nil {
				return nil, err
			}
			r = sub
		}
		return unpackElems(r, *t.Elem, t.Size)
	}
	return nil, fmt.Errorf("%w: %v", errUnsupported, t)
}

// UnpackValues reads consecutive tuple fields.
func UnpackValues(r *Reader, ts []Type) ([]any, error) {
	out := make([]any, len(ts))
	for i, t := range ts {
		v, err := Unpack(r, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func unpackElems(r *Reader, t Type, n int) ([]any, error) {
	out := make([]any, n)
	for i := range out {
		v, err := Unpack(r, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func unpackUint(r *Reader, t Type) (any, error) {
	switch t.Size {
	case 8:
		return r.ReadUint8()
	case 16:
		return r.ReadUint16()
	case 32:
		return r.ReadUint32()
	case 64:
		return r.ReadUint64()
	case 256:
		return r.ReadUint256()
	}
	start := r.Offset()
	v, err := r.ReadUint256()
	if err != nil {
		return nil, err
	}
	if v.BitLen() > t.Size {
		return nil, decodeErr(t.String(), start, ErrBadPadding)
	}
	return v, nil
}

// nativeWidth reports whether uintN values of the given bit size are
// represented by a Go unsigned integer type.
func nativeWidth(size int) bool {
	return size == 8 || size == 16 || size == 32 || size == 64
}

func mismatch(t Type, v any) error {
	return fmt.Errorf("%w: %T for %v", errTypeMismatch, v, t)
}
