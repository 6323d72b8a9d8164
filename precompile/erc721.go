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
	"github.com/holiman/uint256"
	"github.com/ledgerbridge/evmbridge/abi"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/addrspace"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/ledgerbridge/evmbridge/sponsor"
	"github.com/ledgerbridge/evmbridge/state"
)

// erc721Handler is a collection of whole tokens served through ERC-721
// style methods: non-fungible collections and refungible collections.
type erc721Handler interface {
	context() *Context
	collection() *collection.Collection

	exists(token collection.TokenID) bool
	ownerOf(token collection.TokenID) (account.CrossAccountId, error)

	// mintToken, moveToken and burnToken check permissions, update storage
	// and emit the matching events.
	mintToken(to account.CrossAccountId) (collection.TokenID, error)
	moveToken(from, to account.CrossAccountId, token collection.TokenID) error
	burnToken(from account.CrossAccountId, token collection.TokenID) error

	subject(token collection.TokenID, owner account.Key) []byte
}

func erc721MetadataTable[H erc721Handler]() *callTable[H] {
	return newCallTable[H]("ERC721Metadata",
		viewMethod[H]("name()", noArgs[H](erc721Name[H]{})),
		viewMethod[H]("symbol()", noArgs[H](erc721Symbol[H]{})),
		viewMethod[H]("tokenURI(uint256)", decodeERC721TokenURI[H]),
	)
}

func erc721EnumerableTable[H erc721Handler]() *callTable[H] {
	return newCallTable[H]("ERC721Enumerable",
		viewMethod[H]("totalSupply()", noArgs[H](erc721TotalSupply[H]{})),
		viewMethod[H]("tokenByIndex(uint256)", decodeERC721TokenByIndex[H]),
		viewMethod[H]("tokenOfOwnerByIndex(address,uint256)", decodeERC721TokenOfOwnerByIndex[H]),
	)
}

func tokenTarget(coll *collection.Collection, token collection.TokenID) *addrspace.Target {
	return &addrspace.Target{Collection: coll.ID, Token: token, IsToken: true}
}

func tokenValue(token collection.TokenID) *uint256.Int {
	return uint256.NewInt(uint64(token))
}

func readToken(r *abi.Reader) (collection.TokenID, error) {
	t, err := r.ReadUint32()
	return collection.TokenID(t), err
}

// readIndex reads a uint256 index. Indexes that do not fit 64 bits are
// clamped, they are out of range either way.
func readIndex(r *abi.Reader) (uint64, error) {
	v, err := r.ReadUint256()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return ^uint64(0), nil
	}
	return v.Uint64(), nil
}

type erc721BalanceOf[H erc721Handler] struct {
	owner account.CrossAccountId
}

func decodeERC721BalanceOf[H erc721Handler](r *abi.Reader) (call[H], error) {
	owner, err := readAddressID(r)
	if err != nil {
		return nil, err
	}
	return erc721BalanceOf[H]{owner}, nil
}

func (c erc721BalanceOf[H]) exec(h H) ([]byte, error) {
	n := h.context().state.AccountBalance(h.collection().ID, c.owner.Key())
	return packUint64(uint64(n)), nil
}

type erc721OwnerOf[H erc721Handler] struct {
	token collection.TokenID
	cross bool
}

func decodeERC721OwnerOf[H erc721Handler](cross bool) func(r *abi.Reader) (call[H], error) {
	return func(r *abi.Reader) (call[H], error) {
		token, err := readToken(r)
		if err != nil {
			return nil, err
		}
		return erc721OwnerOf[H]{token, cross}, nil
	}
}

func (c erc721OwnerOf[H]) exec(h H) ([]byte, error) {
	owner, err := h.ownerOf(c.token)
	if err != nil {
		return nil, err
	}
	if !c.cross {
		return packAddress(owner.Address()), nil
	}
	w := abi.NewWriter()
	writeCross(w, owner)
	return w.Finish(), nil
}

// erc721Transfer is transfer, transferFrom and safeTransferFrom in their
// address and cross account forms. Transfers without a from argument move
// a token held by the caller.
type erc721Transfer[H erc721Handler] struct {
	from       account.CrossAccountId
	fromCaller bool
	to         account.CrossAccountId
	token      collection.TokenID
}

func decodeERC721Transfer[H erc721Handler](read idReader) func(r *abi.Reader) (call[H], error) {
	return func(r *abi.Reader) (call[H], error) {
		to, err := read(r)
		if err != nil {
			return nil, err
		}
		token, err := readToken(r)
		if err != nil {
			return nil, err
		}
		return erc721Transfer[H]{fromCaller: true, to: to, token: token}, nil
	}
}

// decodeERC721TransferFrom also serves safeTransferFrom. Receivers are not
// contracts, so the data argument is read and dropped.
func decodeERC721TransferFrom[H erc721Handler](read idReader, data bool) func(r *abi.Reader) (call[H], error) {
	return func(r *abi.Reader) (call[H], error) {
		from, to, err := readIDPair(r, read)
		if err != nil {
			return nil, err
		}
		token, err := readToken(r)
		if err != nil {
			return nil, err
		}
		if data {
			if _, err := r.ReadBytes(); err != nil {
				return nil, err
			}
		}
		return erc721Transfer[H]{from: from, to: to, token: token}, nil
	}
}

func (c erc721Transfer[H]) sender(h H) account.CrossAccountId {
	if c.fromCaller {
		return h.context().caller
	}
	return c.from
}

func (c erc721Transfer[H]) exec(h H) ([]byte, error) {
	if err := h.moveToken(c.sender(h), c.to, c.token); err != nil {
		return nil, err
	}
	return nil, nil
}

func (c erc721Transfer[H]) throttle(h H) (sponsor.Class, []byte) {
	return sponsor.Transfer, h.subject(c.token, c.sender(h).Key())
}

type erc721Burn[H erc721Handler] struct {
	from       account.CrossAccountId
	fromCaller bool
	token      collection.TokenID
}

func decodeERC721Burn[H erc721Handler](r *abi.Reader) (call[H], error) {
	token, err := readToken(r)
	if err != nil {
		return nil, err
	}
	return erc721Burn[H]{fromCaller: true, token: token}, nil
}

func decodeERC721BurnFrom[H erc721Handler](read idReader) func(r *abi.Reader) (call[H], error) {
	return func(r *abi.Reader) (call[H], error) {
		from, err := read(r)
		if err != nil {
			return nil, err
		}
		token, err := readToken(r)
		if err != nil {
			return nil, err
		}
		return erc721Burn[H]{from: from, token: token}, nil
	}
}

func (c erc721Burn[H]) exec(h H) ([]byte, error) {
	from := c.from
	if c.fromCaller {
		from = h.context().caller
	}
	return nil, h.burnToken(from, c.token)
}

type erc721Mint[H erc721Handler] struct {
	to  account.CrossAccountId
	uri string
}

func decodeERC721Mint[H erc721Handler](read idReader, withURI bool) func(r *abi.Reader) (call[H], error) {
	return func(r *abi.Reader) (call[H], error) {
		to, err := read(r)
		if err != nil {
			return nil, err
		}
		var uri string
		if withURI {
			if uri, err = r.ReadString(); err != nil {
				return nil, err
			}
		}
		return erc721Mint[H]{to, uri}, nil
	}
}

func (c erc721Mint[H]) exec(h H) ([]byte, error) {
	ctx, coll := h.context(), h.collection()
	if err := ctx.requireCollectionOwner(coll); err != nil {
		return nil, err
	}
	if c.to.IsZero() {
		return nil, ErrZeroAddress
	}
	if err := ctx.checkNestingTarget(c.to, nil); err != nil {
		return nil, err
	}
	token, err := h.mintToken(c.to)
	if err != nil {
		return nil, err
	}
	ctx.state.SetTokenURI(coll.ID, token, c.uri)
	return packUint256(tokenValue(token)), nil
}

type erc721SetTokenURI[H erc721Handler] struct {
	token collection.TokenID
	uri   string
}

func decodeERC721SetTokenURI[H erc721Handler](r *abi.Reader) (call[H], error) {
	token, err := readToken(r)
	if err != nil {
		return nil, err
	}
	uri, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return erc721SetTokenURI[H]{token, uri}, nil
}

func (c erc721SetTokenURI[H]) exec(h H) ([]byte, error) {
	ctx, coll := h.context(), h.collection()
	if err := ctx.requireCollectionOwner(coll); err != nil {
		return nil, err
	}
	if !h.exists(c.token) {
		return nil, state.ErrTokenNotFound
	}
	ctx.state.SetTokenURI(coll.ID, c.token, c.uri)
	return nil, nil
}

type erc721NextTokenID[H erc721Handler] struct{}

func (erc721NextTokenID[H]) exec(h H) ([]byte, error) {
	last := h.context().state.TokensMinted(h.collection().ID)
	return packUint64(uint64(last) + 1), nil
}

type erc721Name[H erc721Handler] struct{}

func (erc721Name[H]) exec(h H) ([]byte, error) { return packString(h.collection().Name), nil }

type erc721Symbol[H erc721Handler] struct{}

func (erc721Symbol[H]) exec(h H) ([]byte, error) { return packString(h.collection().TokenPrefix), nil }

type erc721TokenURI[H erc721Handler] struct {
	token collection.TokenID
}

func decodeERC721TokenURI[H erc721Handler](r *abi.Reader) (call[H], error) {
	token, err := readToken(r)
	if err != nil {
		return nil, err
	}
	return erc721TokenURI[H]{token}, nil
}

func (c erc721TokenURI[H]) exec(h H) ([]byte, error) {
	if !h.exists(c.token) {
		return nil, state.ErrTokenNotFound
	}
	return packString(h.context().state.TokenURI(h.collection().ID, c.token)), nil
}

type erc721TotalSupply[H erc721Handler] struct{}

func (erc721TotalSupply[H]) exec(h H) ([]byte, error) {
	tokens := h.context().state.CollectionTokens(h.collection().ID)
	return packUint64(uint64(len(tokens))), nil
}

type erc721TokenByIndex[H erc721Handler] struct {
	index uint64
}

func decodeERC721TokenByIndex[H erc721Handler](r *abi.Reader) (call[H], error) {
	index, err := readIndex(r)
	if err != nil {
		return nil, err
	}
	return erc721TokenByIndex[H]{index}, nil
}

func (c erc721TokenByIndex[H]) exec(h H) ([]byte, error) {
	tokens := h.context().state.CollectionTokens(h.collection().ID)
	if c.index >= uint64(len(tokens)) {
		return nil, ErrIndexOutOfRange
	}
	return packUint256(tokenValue(tokens[c.index])), nil
}

type erc721TokenOfOwnerByIndex[H erc721Handler] struct {
	owner account.CrossAccountId
	index uint64
}

func decodeERC721TokenOfOwnerByIndex[H erc721Handler](r *abi.Reader) (call[H], error) {
	owner, err := readAddressID(r)
	if err != nil {
		return nil, err
	}
	index, err := readIndex(r)
	if err != nil {
		return nil, err
	}
	return erc721TokenOfOwnerByIndex[H]{owner, index}, nil
}

func (c erc721TokenOfOwnerByIndex[H]) exec(h H) ([]byte, error) {
	tokens := h.context().state.AccountTokens(h.collection().ID, c.owner.Key())
	if c.index >= uint64(len(tokens)) {
		return nil, ErrIndexOutOfRange
	}
	return packUint256(tokenValue(tokens[c.index])), nil
}
