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
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/ledgerbridge/evmbridge/abi"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/addrspace"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/ledgerbridge/evmbridge/sponsor"
	"github.com/ledgerbridge/evmbridge/state"
)

// refungible serves a refungible collection at its collection address.
// Tokens are handled whole here; their pieces are traded at the token
// addresses, see refungibleToken.
type refungible struct {
	ctx  *Context
	coll *collection.Collection
}

var refungibleDialect = newDialect[*refungible](
	erc721MetadataTable[*refungible](),
	erc721EnumerableTable[*refungible](),
	newCallTable[*refungible]("ERC721Refungible",
		viewMethod[*refungible]("balanceOf(address)", decodeERC721BalanceOf[*refungible]),
		viewMethod[*refungible]("ownerOf(uint256)", decodeERC721OwnerOf[*refungible](false)),
		viewMethod[*refungible]("crossOwnerOf(uint256)", decodeERC721OwnerOf[*refungible](true)),
		mutMethod[*refungible]("transferFrom(address,address,uint256)", decodeERC721TransferFrom[*refungible](readAddressID, false)),
		mutMethod[*refungible]("transfer(address,uint256)", decodeERC721Transfer[*refungible](readAddressID)),
		mutMethod[*refungible]("transferCross((address,uint256),uint256)", decodeERC721Transfer[*refungible](readCross)),
		mutMethod[*refungible]("burn(uint256)", decodeERC721Burn[*refungible]),
		viewMethod[*refungible]("nextTokenId()", noArgs[*refungible](erc721NextTokenID[*refungible]{})),
		mutMethod[*refungible]("mint(address)", decodeERC721Mint[*refungible](readAddressID, false)),
		mutMethod[*refungible]("mintWithTokenURI(address,string)", decodeERC721Mint[*refungible](readAddressID, true)),
		mutMethod[*refungible]("setTokenURI(uint256,string)", decodeERC721SetTokenURI[*refungible]),
		viewMethod[*refungible]("tokenContractAddress(uint256)", decodeRFTTokenContractAddress),
	),
)

func (h *refungible) context() *Context                  { return h.ctx }
func (h *refungible) collection() *collection.Collection { return h.coll }

func (h *refungible) exists(token collection.TokenID) bool {
	return !h.ctx.state.PieceSupply(h.coll.ID, token).IsZero()
}

// ownerOf returns the holder of every piece, or the zero address while the
// pieces are split between holders.
func (h *refungible) ownerOf(token collection.TokenID) (account.CrossAccountId, error) {
	if !h.exists(token) {
		return account.CrossAccountId{}, state.ErrTokenNotFound
	}
	owner, ok := h.ctx.state.SoleOwner(h.coll.ID, token)
	if !ok {
		return account.FromAddress(common.Address{}), nil
	}
	return crossOf(owner), nil
}

func (h *refungible) subject(token collection.TokenID, owner account.Key) []byte {
	return sponsor.PieceSubject(token, owner)
}

// soleOwner returns the account allowed to handle token as a whole.
func (h *refungible) soleOwner(from account.CrossAccountId, token collection.TokenID) (account.Key, error) {
	if !h.exists(token) {
		return account.Key{}, state.ErrTokenNotFound
	}
	owner, ok := h.ctx.state.SoleOwner(h.coll.ID, token)
	if !ok {
		return account.Key{}, state.ErrNotSoleOwner
	}
	if !from.Equal(crossOf(owner)) {
		return account.Key{}, state.ErrNotOwner
	}
	owns, err := h.ctx.owns(crossOf(owner))
	if err != nil {
		return account.Key{}, err
	}
	if !owns {
		return account.Key{}, ErrNotPermitted
	}
	return owner, nil
}

func (h *refungible) mintToken(to account.CrossAccountId) (collection.TokenID, error) {
	one := uint256.NewInt(1)
	token, err := h.ctx.state.MintRefungible(h.coll.ID, to.Key(), one)
	if err != nil {
		return 0, err
	}
	if err := h.ctx.emit(erc721TransferEvent, common.Address{}, to.Address(), tokenValue(token)); err != nil {
		return 0, err
	}
	return token, h.ctx.emitFrom(addrspace.TokenAddress(h.coll.ID, token), erc20TransferEvent, common.Address{}, to.Address(), one)
}

func (h *refungible) moveToken(from, to account.CrossAccountId, token collection.TokenID) error {
	if h.coll.Limits.TransfersDisabled {
		return ErrTransfersDisabled
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	owner, err := h.soleOwner(from, token)
	if err != nil {
		return err
	}
	if err := h.ctx.checkNestingTarget(to, tokenTarget(h.coll, token)); err != nil {
		return err
	}
	supply := h.ctx.state.PieceSupply(h.coll.ID, token)
	if err := h.ctx.state.TransferPieces(h.coll.ID, token, owner, to.Key(), supply); err != nil {
		return err
	}
	ownerAddr := crossOf(owner).Address()
	if err := h.ctx.emit(erc721TransferEvent, ownerAddr, to.Address(), tokenValue(token)); err != nil {
		return err
	}
	return h.ctx.emitFrom(addrspace.TokenAddress(h.coll.ID, token), erc20TransferEvent, ownerAddr, to.Address(), supply)
}

func (h *refungible) burnToken(from account.CrossAccountId, token collection.TokenID) error {
	owner, err := h.soleOwner(from, token)
	if err != nil {
		return err
	}
	supply := h.ctx.state.PieceSupply(h.coll.ID, token)
	if err := h.ctx.state.BurnPieces(h.coll.ID, token, owner, supply); err != nil {
		return err
	}
	ownerAddr := crossOf(owner).Address()
	if err := h.ctx.emit(erc721TransferEvent, ownerAddr, common.Address{}, tokenValue(token)); err != nil {
		return err
	}
	return h.ctx.emitFrom(addrspace.TokenAddress(h.coll.ID, token), erc20TransferEvent, ownerAddr, common.Address{}, supply)
}

type rftTokenContractAddress struct {
	token collection.TokenID
}

func decodeRFTTokenContractAddress(r *abi.Reader) (call[*refungible], error) {
	token, err := readToken(r)
	if err != nil {
		return nil, err
	}
	return rftTokenContractAddress{token}, nil
}

func (c rftTokenContractAddress) exec(h *refungible) ([]byte, error) {
	return packAddress(addrspace.TokenAddress(h.coll.ID, c.token)), nil
}

// refungibleToken serves the pieces of one refungible token at its token
// address, as an ERC-20 token whose parent is the collection.
type refungibleToken struct {
	ctx   *Context
	coll  *collection.Collection
	token collection.TokenID
}

var refungibleTokenDialect = newDialect[*refungibleToken](
	erc20Table[*refungibleToken](),
	erc20MetadataTable[*refungibleToken](),
	erc20CrossTable[*refungibleToken](),
	newCallTable[*refungibleToken]("ERC1633",
		viewMethod[*refungibleToken]("parentToken()", noArgs[*refungibleToken](rftParentToken{})),
		viewMethod[*refungibleToken]("parentTokenId()", noArgs[*refungibleToken](rftParentTokenID{})),
	),
	newCallTable[*refungibleToken]("ERC20Refungible",
		mutMethod[*refungibleToken]("repartition(uint256)", decodeRFTRepartition),
	),
)

func (h *refungibleToken) context() *Context                  { return h.ctx }
func (h *refungibleToken) collection() *collection.Collection { return h.coll }
func (h *refungibleToken) symbol() string                     { return h.coll.TokenPrefix }

// decimals is zero: pieces are indivisible.
func (h *refungibleToken) decimals() uint8 { return 0 }

func (h *refungibleToken) totalSupply() *uint256.Int {
	return h.ctx.state.PieceSupply(h.coll.ID, h.token)
}

func (h *refungibleToken) balanceOf(owner account.Key) *uint256.Int {
	return h.ctx.state.PieceBalance(h.coll.ID, h.token, owner)
}

func (h *refungibleToken) allowance(owner, spender account.Key) *uint256.Int {
	return h.ctx.state.PieceAllowance(h.coll.ID, h.token, owner, spender)
}

func (h *refungibleToken) setAllowance(owner, spender account.Key, amount *uint256.Int) {
	h.ctx.state.SetPieceAllowance(h.coll.ID, h.token, owner, spender, amount)
}

func (h *refungibleToken) spendAllowance(owner, spender account.Key, amount *uint256.Int) error {
	return h.ctx.state.SpendPieceAllowance(h.coll.ID, h.token, owner, spender, amount)
}

func (h *refungibleToken) subject(owner account.Key) []byte {
	return sponsor.PieceSubject(h.token, owner)
}

// ownership reports the sole holder, used to mirror changes of whole token
// ownership as ERC-721 events on the collection address.
func (h *refungibleToken) ownership() common.Address {
	owner, ok := h.ctx.state.SoleOwner(h.coll.ID, h.token)
	if !ok {
		return common.Address{}
	}
	return crossOf(owner).Address()
}

func (h *refungibleToken) emitOwnership(before common.Address) error {
	after := h.ownership()
	if before == after {
		return nil
	}
	return h.ctx.emitFrom(addrspace.CollectionAddress(h.coll.ID), erc721TransferEvent, before, after, tokenValue(h.token))
}

func (h *refungibleToken) move(from, to account.CrossAccountId, amount *uint256.Int) error {
	before := h.ownership()
	if err := h.ctx.state.TransferPieces(h.coll.ID, h.token, from.Key(), to.Key(), amount); err != nil {
		return err
	}
	if err := h.ctx.emit(erc20TransferEvent, from.Address(), to.Address(), amount); err != nil {
		return err
	}
	return h.emitOwnership(before)
}

func (h *refungibleToken) burn(from account.CrossAccountId, amount *uint256.Int) error {
	before := h.ownership()
	if err := h.ctx.state.BurnPieces(h.coll.ID, h.token, from.Key(), amount); err != nil {
		return err
	}
	if err := h.ctx.emit(erc20TransferEvent, from.Address(), common.Address{}, amount); err != nil {
		return err
	}
	return h.emitOwnership(before)
}

type rftParentToken struct{}

func (rftParentToken) exec(h *refungibleToken) ([]byte, error) {
	return packAddress(addrspace.CollectionAddress(h.coll.ID)), nil
}

type rftParentTokenID struct{}

func (rftParentTokenID) exec(h *refungibleToken) ([]byte, error) {
	return packUint256(tokenValue(h.token)), nil
}

type rftRepartition struct {
	pieces *uint256.Int
}

func decodeRFTRepartition(r *abi.Reader) (call[*refungibleToken], error) {
	pieces, err := r.ReadUint256()
	if err != nil {
		return nil, err
	}
	return rftRepartition{pieces}, nil
}

// exec splits the token into a new number of pieces. The caller must hold
// all of them.
func (c rftRepartition) exec(h *refungibleToken) ([]byte, error) {
	caller := h.ctx.caller
	old := h.totalSupply()
	if err := h.ctx.state.Repartition(h.coll.ID, h.token, caller.Key(), c.pieces); err != nil {
		return nil, err
	}
	var err error
	switch {
	case c.pieces.Gt(old):
		err = h.ctx.emit(erc20TransferEvent, common.Address{}, caller.Address(), new(uint256.Int).Sub(c.pieces, old))
	case c.pieces.Lt(old):
		err = h.ctx.emit(erc20TransferEvent, caller.Address(), common.Address{}, new(uint256.Int).Sub(old, c.pieces))
	}
	if err != nil {
		return nil, err
	}
	return packBool(true), nil
}
