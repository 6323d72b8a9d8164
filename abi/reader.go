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
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Reader is a cursor over one ABI tuple. The underlying buffer starts at the
// tuple base, so every offset read from a head slot is relative to it.
//
// All reads are bounds checked and report a *DecodeError; a Reader never
// panics on malformed input.
type Reader struct {
	buf    []byte
	offset int
}

// NewReader returns a reader positioned at the start of the tuple in buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Offset returns the position of the cursor within the tuple.
func (r *Reader) Offset() int { return r.offset }

// Remaining returns the number of bytes after the cursor.
func (r *Reader) Remaining() int { return len(r.buf) - r.offset }

func (r *Reader) word(what string) ([]byte, error) {
	if r.Remaining() < WordSize {
		return nil, decodeErr(what, r.offset, ErrShortInput)
	}
	w := r.buf[r.offset : r.offset+WordSize]
	r.offset += WordSize
	return w, nil
}

// readUint decodes a word holding an unsigned integer of the given byte
// width. Anything set above that width is rejected.
func (r *Reader) readUint(what string, width int) ([]byte, error) {
	start := r.offset
	w, err := r.word(what)
	if err != nil {
		return nil, err
	}
	if !allZero(w[:WordSize-width]) {
		return nil, decodeErr(what, start, ErrBadPadding)
	}
	return w[WordSize-width:], nil
}

// ReadUint8 reads a uint8 word.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.readUint("uint8", 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint16 reads a uint16 word.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.readUint("uint16", 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// ReadUint32 reads a uint32 word.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.readUint("uint32", 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadUint64 reads a uint64 word.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.readUint("uint64", 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadUint128 reads a uint128 word.
func (r *Reader) ReadUint128() (*uint256.Int, error) {
	b, err := r.readUint("uint128", 16)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(b), nil
}

// ReadUint256 reads a uint256 word.
func (r *Reader) ReadUint256() (*uint256.Int, error) {
	w, err := r.word("uint256")
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(w), nil
}

// ReadBool reads a boolean word, which must hold exactly 0 or 1.
func (r *Reader) ReadBool() (bool, error) {
	start := r.offset
	w, err := r.word("bool")
	if err != nil {
		return false, err
	}
	if !allZero(w[:WordSize-1]) || w[WordSize-1] > 1 {
		return false, decodeErr("bool", start, ErrBadBool)
	}
	return w[WordSize-1] == 1, nil
}

// ReadAddress reads a right-aligned address word.
func (r *Reader) ReadAddress() (common.Address, error) {
	b, err := r.readUint("address", common.AddressLength)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(b), nil
}

// ReadHash reads a bytes32 word.
func (r *Reader) ReadHash() (common.Hash, error) {
	w, err := r.word("bytes32")
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(w), nil
}

// ReadFixedBytes reads a left-aligned bytesN word.
func (r *Reader) ReadFixedBytes(n int) ([]byte, error) {
	start := r.offset
	if n <= 0 || n > WordSize {
		return nil, decodeErr("fixed bytes", start, errUnsupported)
	}
	w, err := r.word("fixed bytes")
	if err != nil {
		return nil, err
	}
	if !allZero(w[n:]) {
		return nil, decodeErr("fixed bytes", start, ErrBadPadding)
	}
	return common.CopyBytes(w[:n]), nil
}

// readOffset reads a head slot holding the position of a dynamic value and
// checks it lands inside the tuple.
func (r *Reader) readOffset(what string) (int, error) {
	start := r.offset
	off, err := r.readLength(what)
	if err != nil {
		return 0, err
	}
	if off > len(r.buf) {
		return 0, decodeErr(what, start, ErrOffsetOutOfBounds)
	}
	return off, nil
}

func (r *Reader) readLength(what string) (int, error) {
	start := r.offset
	w, err := r.word(what)
	if err != nil {
		return 0, err
	}
	// Anything that does not fit 32 bits cannot describe a valid buffer.
	if !allZero(w[:WordSize-4]) {
		return 0, decodeErr(what, start, ErrOffsetOutOfBounds)
	}
	return int(binary.BigEndian.Uint32(w[WordSize-4:])), nil
}

// Dynamic follows the offset in the next head slot and returns a reader for
// the dynamic tuple stored there. The outer cursor advances one word.
func (r *Reader) Dynamic() (*Reader, error) {
	off, err := r.readOffset("tuple offset")
	if err != nil {
		return nil, err
	}
	return &Reader{buf: r.buf[off:]}, nil
}

// Array follows the offset in the next head slot, reads the element count
// and returns a reader positioned on the first element. Element offsets of
// dynamic arrays are relative to the returned reader.
func (r *Reader) Array() (*Reader, int, error) {
	off, err := r.readOffset("array offset")
	if err != nil {
		return nil, 0, err
	}
	sub := &Reader{buf: r.buf[off:]}
	n, err := sub.readLength("array length")
	if err != nil {
		return nil, 0, err
	}
	// Every element occupies at least one head word.
	if uint64(n)*WordSize > uint64(sub.Remaining()) {
		return nil, 0, decodeErr("array length", off, ErrOffsetOutOfBounds)
	}
	return &Reader{buf: sub.buf[WordSize:]}, n, nil
}

// ReadBytes reads a dynamic byte string. The returned slice is a copy.
func (r *Reader) ReadBytes() ([]byte, error) {
	off, err := r.readOffset("bytes offset")
	if err != nil {
		return nil, err
	}
	sub := &Reader{buf: r.buf[off:]}
	n, err := sub.readLength("bytes length")
	if err != nil {
		return nil, err
	}
	if n > sub.Remaining() {
		return nil, decodeErr("bytes", off, ErrOffsetOutOfBounds)
	}
	return common.CopyBytes(sub.buf[WordSize : WordSize+n]), nil
}

// ReadString reads a dynamic string.
func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadUint256Array reads a uint256[] value.
func (r *Reader) ReadUint256Array() ([]*uint256.Int, error) {
	sub, n, err := r.Array()
	if err != nil {
		return nil, err
	}
	out := make([]*uint256.Int, n)
	for i := range out {
		if out[i], err = sub.ReadUint256(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadUint32Array reads a uint32[] value.
func (r *Reader) ReadUint32Array() ([]uint32, error) {
	sub, n, err := r.Array()
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		if out[i], err = sub.ReadUint32(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
