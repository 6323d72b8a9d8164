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

// Package collection defines the native asset collections exposed through
// the bridge.
package collection

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledgerbridge/evmbridge/account"
)

// Limits on collection metadata.
const (
	MaxNameLength        = 64
	MaxDescriptionLength = 256
	MaxTokenPrefixLength = 16
	MaxDecimals          = 30
)

var (
	ErrNameTooLong        = errors.New("collection name too long")
	ErrDescriptionTooLong = errors.New("collection description too long")
	ErrPrefixTooLong      = errors.New("token prefix too long")
	ErrBadDecimals        = errors.New("decimals out of range for collection kind")
	ErrUnknownKind        = errors.New("unknown collection kind")
)

// ID identifies a collection.
type ID uint32

// TokenID identifies a token within a collection. Zero is never a valid
// token id.
type TokenID uint32

// Kind is the asset model of a collection.
type Kind uint8

const (
	Fungible Kind = iota
	NonFungible
	Refungible
)

func (k Kind) String() string {
	switch k {
	case Fungible:
		return "fungible"
	case NonFungible:
		return "nonfungible"
	case Refungible:
		return "refungible"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind converts a kind name back to its value.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "fungible", "ft":
		return Fungible, nil
	case "nonfungible", "nft":
		return NonFungible, nil
	case "refungible", "rft":
		return Refungible, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// SponsorState is the lifecycle of a collection sponsor.
type SponsorState uint8

const (
	SponsorDisabled SponsorState = iota
	// SponsorUnconfirmed means a sponsor was proposed by the owner but has
	// not accepted yet. Nothing is sponsored in this state.
	SponsorUnconfirmed
	SponsorConfirmed
)

// Sponsorship records who pays fees for calls on the collection.
type Sponsorship struct {
	State   SponsorState
	Sponsor account.Key
}

// Timeout is an optional block count.
type Timeout struct {
	Set    bool
	Blocks uint32
}

// Or returns the configured block count or def if none is set.
func (t Timeout) Or(def uint32) uint32 {
	if t.Set {
		return t.Blocks
	}
	return def
}

// Limits are per collection overrides of protocol defaults.
type Limits struct {
	SponsorTransferTimeout Timeout
	SponsorApproveTimeout  Timeout
	TransfersDisabled      bool
}

// Collection is the metadata of one collection.
type Collection struct {
	ID          ID
	Kind        Kind
	Owner       account.Key
	Name        string
	Description string
	TokenPrefix string
	Decimals    uint8
	Sponsorship Sponsorship
	Limits      Limits
}

// ConfirmedSponsor returns the sponsor if one has confirmed.
func (c *Collection) ConfirmedSponsor() (account.Key, bool) {
	if c.Sponsorship.State != SponsorConfirmed {
		return account.Key{}, false
	}
	return c.Sponsorship.Sponsor, true
}

// Validate checks the metadata limits.
func (c *Collection) Validate() error {
	if c.Kind > Refungible {
		return fmt.Errorf("%w: %d", ErrUnknownKind, c.Kind)
	}
	if utf8.RuneCountInString(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if utf8.RuneCountInString(c.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if len(c.TokenPrefix) > MaxTokenPrefixLength {
		return ErrPrefixTooLong
	}
	if (c.Kind != Fungible && c.Decimals != 0) || c.Decimals > MaxDecimals {
		return ErrBadDecimals
	}
	return nil
}
