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
)

var (
	// ErrShortInput is returned when a read needs more bytes than the
	// buffer holds.
	ErrShortInput = errors.New("abi: input too short")

	// ErrOffsetOutOfBounds is returned when an offset or length word points
	// outside of the buffer.
	ErrOffsetOutOfBounds = errors.New("abi: offset out of bounds")

	// ErrBadPadding is returned when the padding bytes of a word are not zero.
	ErrBadPadding = errors.New("abi: non-zero padding")

	// ErrBadBool is returned when a boolean value is improperly encoded.
	ErrBadBool = errors.New("abi: improperly encoded boolean value")

	// ErrNoSelector is returned when a call payload is shorter than a selector.
	ErrNoSelector = errors.New("abi: call data shorter than selector")
)

var (
	errTypeMismatch   = errors.New("abi: value does not match type")
	errTooManyIndexed = errors.New("abi: event has more than 3 indexed arguments")
	errUnsupported    = errors.New("abi: unsupported type")
)

// DecodeError describes a failure to read a value from an untrusted payload.
// Offset is relative to the tuple the failing reader was positioned on.
type DecodeError struct {
	What   string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s at offset %d: %v", e.What, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(what string, offset int, err error) error {
	return &DecodeError{What: what, Offset: offset, Err: err}
}
