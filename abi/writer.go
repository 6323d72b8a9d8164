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

// WordSize is the ABI alignment unit.
const WordSize = 32

// pendingDynamic is a head slot waiting for the offset of its tail entry.
type pendingDynamic struct {
	slot int
	w    *Writer
}

// Writer builds one ABI tuple. Static values go into the head in call order;
// every dynamic value reserves a head slot which Finish patches with the
// offset of the value's encoding in the tail. Offsets are relative to the
// start of the head, so a prefix (a call selector or an array length word)
// never shifts them.
//
// Sub-writers returned by the Write*Array and WriteTuple helpers may be
// filled at any point before Finish is called on the outermost writer.
type Writer struct {
	prefix   []byte
	head     []byte
	dynamics []pendingDynamic

	out  []byte
	done bool
}

// NewWriter returns an empty tuple writer.
func NewWriter() *Writer {
	return new(Writer)
}

// NewCallWriter returns a tuple writer whose output is prefixed with the
// given selector.
func NewCallWriter(sel Selector) *Writer {
	return &Writer{prefix: sel[:]}
}

func (w *Writer) word() []byte {
	w.done = false
	w.head = append(w.head, make([]byte, WordSize)...)
	return w.head[len(w.head)-WordSize:]
}

// WriteUint8 appends a uint8 word.
func (w *Writer) WriteUint8(v uint8) { w.WriteUint64(uint64(v)) }

// WriteUint16 appends a uint16 word.
func (w *Writer) WriteUint16(v uint16) { w.WriteUint64(uint64(v)) }

// WriteUint32 appends a uint32 word.
func (w *Writer) WriteUint32(v uint32) { w.WriteUint64(uint64(v)) }

// WriteUint64 appends a uint64 word.
func (w *Writer) WriteUint64(v uint64) {
	binary.BigEndian.PutUint64(w.word()[WordSize-8:], v)
}

// WriteUint256 appends a 256 bit word. A nil value is written as zero.
func (w *Writer) WriteUint256(v *uint256.Int) {
	slot := w.word()
	if v != nil {
		b := v.Bytes32()
		copy(slot, b[:])
	}
}

// WriteBool appends a boolean word.
func (w *Writer) WriteBool(v bool) {
	slot := w.word()
	if v {
		slot[WordSize-1] = 1
	}
}

// WriteAddress appends a right-aligned address word.
func (w *Writer) WriteAddress(addr common.Address) {
	copy(w.word()[WordSize-common.AddressLength:], addr[:])
}

// WriteHash appends a bytes32 word.
func (w *Writer) WriteHash(h common.Hash) {
	copy(w.word(), h[:])
}

// WriteFixedBytes appends a bytesN word, left-aligned. Input longer than a
// word is truncated.
func (w *Writer) WriteFixedBytes(b []byte) {
	copy(w.word(), b)
}

// WriteBytes appends a dynamic byte string.
func (w *Writer) WriteBytes(b []byte) {
	sub := &Writer{prefix: lengthWord(len(b))}
	sub.head = make([]byte, paddedLen(len(b)))
	copy(sub.head, b)
	w.attach(sub)
}

// WriteString appends a dynamic string.
func (w *Writer) WriteString(s string) {
	w.WriteBytes([]byte(s))
}

// WriteTuple reserves a slot for a dynamic tuple and returns the writer for
// its fields. Static tuples are written inline into w instead.
func (w *Writer) WriteTuple() *Writer {
	sub := new(Writer)
	w.attach(sub)
	return sub
}

// WriteArray reserves a slot for a dynamic array of n elements and returns
// the writer for its elements.
func (w *Writer) WriteArray(n int) *Writer {
	sub := &Writer{prefix: lengthWord(n)}
	w.attach(sub)
	return sub
}

// WriteUint256Array appends a uint256[] value.
func (w *Writer) WriteUint256Array(vs []*uint256.Int) {
	sub := w.WriteArray(len(vs))
	for _, v := range vs {
		sub.WriteUint256(v)
	}
}

// WriteUint32Array appends a uint32[] value.
func (w *Writer) WriteUint32Array(vs []uint32) {
	sub := w.WriteArray(len(vs))
	for _, v := range vs {
		sub.WriteUint32(v)
	}
}

func (w *Writer) attach(sub *Writer) {
	slot := len(w.head)
	w.word()
	w.dynamics = append(w.dynamics, pendingDynamic{slot: slot, w: sub})
}

// Finish lays out head and tail and returns the encoding. Calling it again
// returns the same buffer unless something was written in between.
func (w *Writer) Finish() []byte {
	if w.done && !w.childDirty() {
		return w.out
	}
	head := make([]byte, len(w.head))
	copy(head, w.head)

	var tail []byte
	for _, d := range w.dynamics {
		enc := d.w.Finish()
		offset := uint64(len(head) + len(tail))
		binary.BigEndian.PutUint64(head[d.slot+WordSize-8:d.slot+WordSize], offset)
		tail = append(tail, enc...)
	}
	out := make([]byte, 0, len(w.prefix)+len(head)+len(tail))
	out = append(out, w.prefix...)
	out = append(out, head...)
	out = append(out, tail...)

	w.out, w.done = out, true
	return out
}

func (w *Writer) childDirty() bool {
	for _, d := range w.dynamics {
		if !d.w.done || d.w.childDirty() {
			return true
		}
	}
	return false
}

// Len returns the number of head bytes written so far.
func (w *Writer) Len() int { return len(w.head) }

func lengthWord(n int) []byte {
	word := make([]byte, WordSize)
	binary.BigEndian.PutUint64(word[WordSize-8:], uint64(n))
	return word
}

func paddedLen(n int) int {
	return (n + WordSize - 1) / WordSize * WordSize
}
