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
	"github.com/ledgerbridge/evmbridge/abi"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/ledgerbridge/evmbridge/sponsor"
	"github.com/ledgerbridge/evmbridge/state"
)

// nonFungible serves a non-fungible collection at its collection address.
type nonFungible struct {
	ctx  *Context
	coll *collection.Collection
}

var nonFungibleDialect = newDialect[*nonFungible](
	newCallTable[*nonFungible]("ERC721",
		viewMethod[*nonFungible]("balanceOf(address)", decodeERC721BalanceOf[*nonFungible]),
		viewMethod[*nonFungible]("ownerOf(uint256)", decodeERC721OwnerOf[*nonFungible](false)),
		mutMethod[*nonFungible]("safeTransferFrom(address,address,uint256,bytes)", decodeERC721TransferFrom[*nonFungible](readAddressID, true)),
		mutMethod[*nonFungible]("safeTransferFrom(address,address,uint256)", decodeERC721TransferFrom[*nonFungible](readAddressID, false)),
		mutMethod[*nonFungible]("transferFrom(address,address,uint256)", decodeERC721TransferFrom[*nonFungible](readAddressID, false)),
		mutMethod[*nonFungible]("approve(address,uint256)", decodeNFTApprove(readAddressID)),
		mutMethod[*nonFungible]("setApprovalForAll(address,bool)", decodeNFTSetApprovalForAll),
		viewMethod[*nonFungible]("getApproved(uint256)", decodeNFTGetApproved),
		viewMethod[*nonFungible]("isApprovedForAll(address,address)", decodeNFTIsApprovedForAll),
	),
	erc721MetadataTable[*nonFungible](),
	erc721EnumerableTable[*nonFungible](),
	newCallTable[*nonFungible]("ERC721UniqueExtensions",
		mutMethod[*nonFungible]("transfer(address,uint256)", decodeERC721Transfer[*nonFungible](readAddressID)),
		mutMethod[*nonFungible]("transferCross((address,uint256),uint256)", decodeERC721Transfer[*nonFungible](readCross)),
		mutMethod[*nonFungible]("transferFromCross((address,uint256),(address,uint256),uint256)", decodeERC721TransferFrom[*nonFungible](readCross, false)),
		mutMethod[*nonFungible]("approveCross((address,uint256),uint256)", decodeNFTApprove(readCross)),
		mutMethod[*nonFungible]("burn(uint256)", decodeERC721Burn[*nonFungible]),
		mutMethod[*nonFungible]("burnFrom(address,uint256)", decodeERC721BurnFrom[*nonFungible](readAddressID)),
		mutMethod[*nonFungible]("burnFromCross((address,uint256),uint256)", decodeERC721BurnFrom[*nonFungible](readCross)),
		viewMethod[*nonFungible]("crossOwnerOf(uint256)", decodeERC721OwnerOf[*nonFungible](true)),
		viewMethod[*nonFungible]("nextTokenId()", noArgs[*nonFungible](erc721NextTokenID[*nonFungible]{})),
		mutMethod[*nonFungible]("mint(address)", decodeERC721Mint[*nonFungible](readAddressID, false)),
		mutMethod[*nonFungible]("mintCross((address,uint256))", decodeERC721Mint[*nonFungible](readCross, false)),
		mutMethod[*nonFungible]("mintWithTokenURI(address,string)", decodeERC721Mint[*nonFungible](readAddressID, true)),
		mutMethod[*nonFungible]("setTokenURI(uint256,string)", decodeERC721SetTokenURI[*nonFungible]),
	),
)

func (h *nonFungible) context() *Context                  { return h.ctx }
func (h *nonFungible) collection() *collection.Collection { return h.coll }

func (h *nonFungible) exists(token collection.TokenID) bool {
	_, ok := h.ctx.state.TokenOwner(h.coll.ID, token)
	return ok
}

func (h *nonFungible) owner(token collection.TokenID) (account.Key, error) {
	owner, ok := h.ctx.state.TokenOwner(h.coll.ID, token)
	if !ok {
		return account.Key{}, state.ErrTokenNotFound
	}
	return owner, nil
}

func (h *nonFungible) ownerOf(token collection.TokenID) (account.CrossAccountId, error) {
	owner, err := h.owner(token)
	if err != nil {
		return account.CrossAccountId{}, err
	}
	return crossOf(owner), nil
}

func (h *nonFungible) subject(token collection.TokenID, _ account.Key) []byte {
	return sponsor.TokenSubject(token)
}

// authorize fails unless the caller may move token: as its owner, directly
// or through nesting, as the approved account or as an operator.
func (h *nonFungible) authorize(owner account.Key, token collection.TokenID) error {
	caller := h.ctx.caller
	if approved, ok := h.ctx.state.TokenApproved(h.coll.ID, token); ok && caller.Equal(crossOf(approved)) {
		return nil
	}
	if h.ctx.state.IsOperator(h.coll.ID, owner, caller.Key()) {
		return nil
	}
	owns, err := h.ctx.owns(crossOf(owner))
	if err != nil {
		return err
	}
	if !owns {
		return ErrNotPermitted
	}
	return nil
}

func (h *nonFungible) mintToken(to account.CrossAccountId) (collection.TokenID, error) {
	token, err := h.ctx.state.MintToken(h.coll.ID, to.Key())
	if err != nil {
		return 0, err
	}
	return token, h.ctx.emit(erc721TransferEvent, common.Address{}, to.Address(), tokenValue(token))
}

func (h *nonFungible) moveToken(from, to account.CrossAccountId, token collection.TokenID) error {
	if h.coll.Limits.TransfersDisabled {
		return ErrTransfersDisabled
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	owner, err := h.owner(token)
	if err != nil {
		return err
	}
	if !from.Equal(crossOf(owner)) {
		return state.ErrNotOwner
	}
	if err := h.authorize(owner, token); err != nil {
		return err
	}
	if err := h.ctx.checkNestingTarget(to, tokenTarget(h.coll, token)); err != nil {
		return err
	}
	if err := h.ctx.state.TransferToken(h.coll.ID, token, owner, to.Key()); err != nil {
		return err
	}
	return h.ctx.emit(erc721TransferEvent, crossOf(owner).Address(), to.Address(), tokenValue(token))
}

func (h *nonFungible) burnToken(from account.CrossAccountId, token collection.TokenID) error {
	owner, err := h.owner(token)
	if err != nil {
		return err
	}
	if !from.Equal(crossOf(owner)) {
		return state.ErrNotOwner
	}
	if err := h.authorize(owner, token); err != nil {
		return err
	}
	if err := h.ctx.state.BurnToken(h.coll.ID, token, owner); err != nil {
		return err
	}
	return h.ctx.emit(erc721TransferEvent, crossOf(owner).Address(), common.Address{}, tokenValue(token))
}

type nftApprove struct {
	approved account.CrossAccountId
	token    collection.TokenID
}

func decodeNFTApprove(read idReader) func(r *abi.Reader) (call[*nonFungible], error) {
	return func(r *abi.Reader) (call[*nonFungible], error) {
		approved, err := read(r)
		if err != nil {
			return nil, err
		}
		token, err := readToken(r)
		if err != nil {
			return nil, err
		}
		return nftApprove{approved, token}, nil
	}
}

// exec lets an operator or the owner, directly or through nesting,
// approve. A zero approved account clears the approval.
func (c nftApprove) exec(h *nonFungible) ([]byte, error) {
	owner, err := h.owner(c.token)
	if err != nil {
		return nil, err
	}
	if !h.ctx.state.IsOperator(h.coll.ID, owner, h.ctx.caller.Key()) {
		owns, err := h.ctx.owns(crossOf(owner))
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, ErrNotPermitted
		}
	}
	h.ctx.state.ApproveToken(h.coll.ID, c.token, c.approved.Key())
	return nil, h.ctx.emit(erc721ApprovalEvent, crossOf(owner).Address(), c.approved.Address(), tokenValue(c.token))
}

func (c nftApprove) throttle(h *nonFungible) (sponsor.Class, []byte) {
	return sponsor.Approve, sponsor.TokenSubject(c.token)
}

type nftSetApprovalForAll struct {
	operator account.CrossAccountId
	approved bool
}

func decodeNFTSetApprovalForAll(r *abi.Reader) (call[*nonFungible], error) {
	operator, err := readAddressID(r)
	if err != nil {
		return nil, err
	}
	approved, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	return nftSetApprovalForAll{operator, approved}, nil
}

func (c nftSetApprovalForAll) exec(h *nonFungible) ([]byte, error) {
	caller := h.ctx.caller
	h.ctx.state.SetOperator(h.coll.ID, caller.Key(), c.operator.Key(), c.approved)
	return nil, h.ctx.emit(erc721ApprovalForAllEvent, caller.Address(), c.operator.Address(), c.approved)
}

func (c nftSetApprovalForAll) throttle(h *nonFungible) (sponsor.Class, []byte) {
	return sponsor.Approve, sponsor.AccountSubject(h.ctx.caller.Key())
}

type nftGetApproved struct {
	token collection.TokenID
}

func decodeNFTGetApproved(r *abi.Reader) (call[*nonFungible], error) {
	token, err := readToken(r)
	if err != nil {
		return nil, err
	}
	return nftGetApproved{token}, nil
}

func (c nftGetApproved) exec(h *nonFungible) ([]byte, error) {
	if _, err := h.owner(c.token); err != nil {
		return nil, err
	}
	approved, ok := h.ctx.state.TokenApproved(h.coll.ID, c.token)
	if !ok {
		return packAddress(common.Address{}), nil
	}
	return packAddress(crossOf(approved).Address()), nil
}

type nftIsApprovedForAll struct {
	owner, operator account.CrossAccountId
}

func decodeNFTIsApprovedForAll(r *abi.Reader) (call[*nonFungible], error) {
	owner, operator, err := readIDPair(r, readAddressID)
	if err != nil {
		return nil, err
	}
	return nftIsApprovedForAll{owner, operator}, nil
}

func (c nftIsApprovedForAll) exec(h *nonFungible) ([]byte, error) {
	return packBool(h.ctx.state.IsOperator(h.coll.ID, c.owner.Key(), c.operator.Key())), nil
}
