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

package collection

import (
	"errors"
	"strings"
	"testing"

	"github.com/ledgerbridge/evmbridge/account"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		c    Collection
		want error
	}{
		{"ok fungible", Collection{Kind: Fungible, Name: "Gold", Decimals: 18}, nil},
		{"ok nft", Collection{Kind: NonFungible, Name: strings.Repeat("ж", MaxNameLength)}, nil},
		{"long name", Collection{Kind: NonFungible, Name: strings.Repeat("a", MaxNameLength+1)}, ErrNameTooLong},
		{"long prefix", Collection{Kind: Refungible, TokenPrefix: "ABCDEFGHIJKLMNOPQ"}, ErrPrefixTooLong},
		{"nft decimals", Collection{Kind: NonFungible, Decimals: 1}, ErrBadDecimals},
		{"too many decimals", Collection{Kind: Fungible, Decimals: MaxDecimals + 1}, ErrBadDecimals},
		{"bad kind", Collection{Kind: 7}, ErrUnknownKind},
	}
	for _, tt := range tests {
		if err := tt.c.Validate(); !errors.Is(err, tt.want) {
			t.Errorf("%s: have %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestConfirmedSponsor(t *testing.T) {
	sponsor := account.HexToKey("0x01")
	c := Collection{Sponsorship: Sponsorship{State: SponsorUnconfirmed, Sponsor: sponsor}}
	if _, ok := c.ConfirmedSponsor(); ok {
		t.Fatal("unconfirmed sponsor reported as confirmed")
	}
	c.Sponsorship.State = SponsorConfirmed
	if got, ok := c.ConfirmedSponsor(); !ok || got != sponsor {
		t.Fatalf("have %v %v, want %v true", got, ok, sponsor)
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{Fungible, NonFungible, Refungible} {
		text, _ := k.MarshalText()
		var back Kind
		if err := back.UnmarshalText(text); err != nil || back != k {
			t.Fatalf("%v: have %v %v", k, back, err)
		}
	}
	if _, err := ParseKind("semi"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("unexpected error %v", err)
	}
	if (Timeout{}).Or(5) != 5 || (Timeout{Set: true}).Or(5) != 0 {
		t.Fatal("timeout fallback broken")
	}
}
