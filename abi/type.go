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
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Type kinds.
const (
	UintTy byte = iota
	BoolTy
	AddressTy
	FixedBytesTy
	BytesTy
	StringTy
	TupleTy
	SliceTy
	ArrayTy
)

// Type describes an ABI type. Size is the bit width of integers, the byte
// width of fixed bytes and the length of fixed arrays.
type Type struct {
	T     byte
	Size  int
	Elem  *Type
	Elems []Type

	stringKind string
}

var (
	baseRegex  = regexp.MustCompile(`^([a-z]+)([0-9]*)$`)
	arrayRegex = regexp.MustCompile(`\[([0-9]*)\]$`)
)

// NewType parses a canonical type string such as "uint256", "bytes32[]" or
// "(address,uint256)[2]".
func NewType(t string) (Type, error) {
	t = strings.TrimSpace(t)
	if strings.Count(t, "[") != strings.Count(t, "]") || strings.Count(t, "(") != strings.Count(t, ")") {
		return Type{}, fmt.Errorf("abi: unbalanced type %q", t)
	}
	if m := arrayRegex.FindStringSubmatchIndex(t); m != nil {
		elem, err := NewType(t[:m[0]])
		if err != nil {
			return Type{}, err
		}
		typ := Type{Elem: &elem}
		if m[2] == m[3] {
			typ.T = SliceTy
		} else {
			typ.T = ArrayTy
			if typ.Size, err = strconv.Atoi(t[m[2]:m[3]]); err != nil || typ.Size == 0 {
				return Type{}, fmt.Errorf("abi: bad array size in %q", t)
			}
		}
		typ.stringKind = elem.stringKind + t[m[0]:]
		return typ, nil
	}
	if strings.HasPrefix(t, "(") {
		if !strings.HasSuffix(t, ")") {
			return Type{}, fmt.Errorf("abi: bad tuple %q", t)
		}
		parts, err := splitComponents(t[1 : len(t)-1])
		if err != nil {
			return Type{}, err
		}
		typ := Type{T: TupleTy}
		names := make([]string, 0, len(parts))
		for _, p := range parts {
			elem, err := NewType(p)
			if err != nil {
				return Type{}, err
			}
			typ.Elems = append(typ.Elems, elem)
			names = append(names, elem.stringKind)
		}
		typ.stringKind = "(" + strings.Join(names, ",") + ")"
		return typ, nil
	}
	m := baseRegex.FindStringSubmatch(t)
	if m == nil {
		return Type{}, fmt.Errorf("abi: invalid type %q", t)
	}
	var size int
	if m[2] != "" {
		size, _ = strconv.Atoi(m[2])
	}
	typ := Type{stringKind: t}
	switch m[1] {
	case "uint":
		if size == 0 || size > 256 || size%8 != 0 {
			return Type{}, fmt.Errorf("abi: unsupported integer type %q", t)
		}
		typ.T, typ.Size = UintTy, size
	case "bool":
		typ.T = BoolTy
	case "address":
		typ.T, typ.Size = AddressTy, 20
	case "string":
		typ.T = StringTy
	case "bytes":
		if m[2] == "" {
			typ.T = BytesTy
			break
		}
		if size == 0 || size > 32 {
			return Type{}, fmt.Errorf("abi: unsupported fixed bytes type %q", t)
		}
		typ.T, typ.Size = FixedBytesTy, size
	default:
		return Type{}, fmt.Errorf("%w: %q", errUnsupported, t)
	}
	if typ.T != UintTy && typ.T != FixedBytesTy && m[2] != "" {
		return Type{}, fmt.Errorf("abi: invalid type %q", t)
	}
	return typ, nil
}

// MustNewType is like NewType but panics on error. Intended for static
// tables built at package init.
func MustNewType(t string) Type {
	typ, err := NewType(t)
	if err != nil {
		panic(err)
	}
	return typ
}

func splitComponents(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var (
		parts []string
		depth int
		start int
	)
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, errors.New("abi: unbalanced tuple")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:]), nil
}

// String returns the canonical form used in signatures.
func (t Type) String() string { return t.stringKind }

// IsDynamic reports whether the encoded size of the type depends on its value.
func (t Type) IsDynamic() bool {
	switch t.T {
	case BytesTy, StringTy, SliceTy:
		return true
	case ArrayTy:
		return t.Elem.IsDynamic()
	case TupleTy:
		for _, e := range t.Elems {
			if e.IsDynamic() {
				return true
			}
		}
	}
	return false
}

// Signature builds a canonical function or event signature.
func Signature(name string, args ...Type) string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = a.String()
	}
	return name + "(" + strings.Join(names, ",") + ")"
}
