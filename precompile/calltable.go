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

package precompile

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/ledgerbridge/evmbridge/abi"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/sponsor"
)

// invalidInterface must never be reported as supported.
var invalidInterface = abi.Selector{0xff, 0xff, 0xff, 0xff}

// call is a decoded invocation of one method on a handler of type H.
type call[H any] interface {
	exec(h H) ([]byte, error)
}

// throttledCall is implemented by calls the collection sponsor may pay for.
type throttledCall[H any] interface {
	throttle(h H) (sponsor.Class, []byte)
}

// method is one entry of a call table.
type method[H any] struct {
	sig    string
	sel    abi.Selector
	view   bool
	decode func(r *abi.Reader) (call[H], error)
}

func viewMethod[H any](sig string, decode func(r *abi.Reader) (call[H], error)) method[H] {
	return method[H]{sig: sig, view: true, decode: decode}
}

func mutMethod[H any](sig string, decode func(r *abi.Reader) (call[H], error)) method[H] {
	return method[H]{sig: sig, decode: decode}
}

// noArgs decodes a method without arguments into c.
func noArgs[H any](c call[H]) func(r *abi.Reader) (call[H], error) {
	return func(*abi.Reader) (call[H], error) { return c, nil }
}

// callTable is the static method set of one interface. Entries are matched
// in declaration order and must never be removed or reordered: external
// callers depend on the selectors.
type callTable[H any] struct {
	name    string
	methods []method[H]
	id      abi.Selector
}

func newCallTable[H any](name string, methods ...method[H]) *callTable[H] {
	t := &callTable[H]{name: name, methods: methods}
	sels := make([]abi.Selector, len(methods))
	for i := range t.methods {
		t.methods[i].sel = abi.SelectorOf(t.methods[i].sig)
		sels[i] = t.methods[i].sel
	}
	t.id = abi.InterfaceID(sels...)
	return t
}

// parse matches sel against the table. A miss is reported as ok == false
// without an error. A hit whose arguments do not decode is an error.
func (t *callTable[H]) parse(sel abi.Selector, r *abi.Reader) (*method[H], call[H], bool, error) {
	for i := range t.methods {
		m := &t.methods[i]
		if m.sel != sel {
			continue
		}
		c, err := m.decode(r)
		if err != nil {
			return m, nil, true, fmt.Errorf("%s: %w", m.sig, err)
		}
		return m, c, true, nil
	}
	return nil, nil, false, nil
}

// dialect is the set of interfaces served at one kind of address. The
// ERC-165 table always comes first.
type dialect[H any] struct {
	tables []*callTable[H]
	ids    mapset.Set[abi.Selector]
}

func newDialect[H any](tables ...*callTable[H]) *dialect[H] {
	ids := mapset.NewSet[abi.Selector]()
	erc165 := newCallTable[H]("ERC165",
		viewMethod[H]("supportsInterface(bytes4)", func(r *abi.Reader) (call[H], error) {
			b, err := r.ReadFixedBytes(4)
			if err != nil {
				return nil, err
			}
			return supportsInterface[H]{id: abi.Selector(b), ids: ids}, nil
		}),
	)
	d := &dialect[H]{tables: append([]*callTable[H]{erc165}, tables...), ids: ids}
	seen := make(map[abi.Selector]string)
	for _, t := range d.tables {
		for _, m := range t.methods {
			if prev, ok := seen[m.sel]; ok {
				panic(fmt.Sprintf("selector %s of %s collides with %s", m.sel, m.sig, prev))
			}
			seen[m.sel] = m.sig
		}
		ids.Add(t.id)
	}
	return d
}

// parse decodes a call payload against every interface in order.
func (d *dialect[H]) parse(input []byte) (*method[H], call[H], error) {
	sel, r, err := abi.SplitCall(input)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range d.tables {
		m, c, ok, err := t.parse(sel, r)
		if ok {
			return m, c, err
		}
	}
	return nil, nil, fmt.Errorf("%w %s", ErrUnknownSelector, sel)
}

// bind decodes input for handler h.
func (d *dialect[H]) bind(h H, input []byte) (*invocation, error) {
	m, c, err := d.parse(input)
	if err != nil {
		return nil, err
	}
	inv := &invocation{
		sig:  m.sig,
		view: m.view,
		run:  func() ([]byte, error) { return c.exec(h) },
	}
	if t, ok := c.(throttledCall[H]); ok {
		inv.throttle = func() (sponsor.Class, []byte) { return t.throttle(h) }
	}
	return inv, nil
}

func (d *dialect[H]) signatures(token bool) []Signature {
	var sigs []Signature
	for _, t := range d.tables {
		for _, m := range t.methods {
			sigs = append(sigs, Signature{
				Interface: t.name,
				Signature: m.sig,
				Selector:  m.sel,
				View:      m.view,
				Token:     token,
			})
		}
	}
	return sigs
}

// invocation is a decoded call bound to its handler.
type invocation struct {
	sig      string
	view     bool
	run      func() ([]byte, error)
	throttle func() (sponsor.Class, []byte) // nil if never sponsored
}

type supportsInterface[H any] struct {
	id  abi.Selector
	ids mapset.Set[abi.Selector]
}

func (c supportsInterface[H]) exec(H) ([]byte, error) {
	return packBool(c.id != invalidInterface && c.ids.Contains(c.id)), nil
}

// Argument readers.

func readAddressID(r *abi.Reader) (account.CrossAccountId, error) {
	addr, err := r.ReadAddress()
	if err != nil {
		return account.CrossAccountId{}, err
	}
	return account.FromAddress(addr), nil
}

// readCross reads an (address,uint256) cross account tuple.
func readCross(r *abi.Reader) (account.CrossAccountId, error) {
	addr, err := r.ReadAddress()
	if err != nil {
		return account.CrossAccountId{}, err
	}
	sub, err := r.ReadUint256()
	if err != nil {
		return account.CrossAccountId{}, err
	}
	return account.FromEthCross(addr, sub)
}

func writeCross(w *abi.Writer, id account.CrossAccountId) {
	addr, sub := id.ToEthCross()
	w.WriteAddress(addr)
	w.WriteUint256(sub)
}

// Output helpers.

func packBool(v bool) []byte {
	w := abi.NewWriter()
	w.WriteBool(v)
	return w.Finish()
}

func packUint256(v *uint256.Int) []byte {
	w := abi.NewWriter()
	w.WriteUint256(v)
	return w.Finish()
}

func packUint64(v uint64) []byte {
	w := abi.NewWriter()
	w.WriteUint64(v)
	return w.Finish()
}

func packString(s string) []byte {
	w := abi.NewWriter()
	w.WriteString(s)
	return w.Finish()
}

func packAddress(a common.Address) []byte {
	w := abi.NewWriter()
	w.WriteAddress(a)
	return w.Finish()
}
