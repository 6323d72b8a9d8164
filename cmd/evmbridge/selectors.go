// Copyright 2025 The evmbridge Authors
// This file is part of evmbridge.
//
// evmbridge is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// evmbridge is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with evmbridge. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ledgerbridge/evmbridge/addrspace"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/ledgerbridge/evmbridge/internal/flags"
	"github.com/ledgerbridge/evmbridge/precompile"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"
)

var (
	kindFlag = &cli.StringFlag{
		Name:     "kind",
		Usage:    "Collection kind (fungible, nonfungible or refungible), all kinds if unset",
		Category: flags.BridgeCategory,
	}
	interfacesFlag = &cli.BoolFlag{
		Name:     "interfaces",
		Usage:    "List the ERC-165 interface ids instead of the methods",
		Category: flags.BridgeCategory,
	}
	collectionFlag = &cli.UintFlag{
		Name:     "collection",
		Usage:    "Collection id",
		Required: true,
		Category: flags.BridgeCategory,
	}
	tokenFlag = &cli.UintFlag{
		Name:     "token",
		Usage:    "Token id, selects the token address instead of the collection address",
		Category: flags.BridgeCategory,
	}
)

var selectorsCommand = &cli.Command{
	Action: printSelectors,
	Name:   "selectors",
	Usage:  "Print the methods served at collection addresses",
	Flags:  []cli.Flag{kindFlag, interfacesFlag},
	Description: `
The selectors command prints the dispatch table of each collection kind: the
interface, signature and 4-byte selector of every method, in dispatch order.`,
}

var addressCommand = &cli.Command{
	Name:  "address",
	Usage: "Convert between collections and their contract addresses",
	Subcommands: []*cli.Command{
		{
			Action:    encodeAddress,
			Name:      "encode",
			Usage:     "Print the address of a collection or token",
			Flags:     []cli.Flag{collectionFlag, tokenFlag},
			ArgsUsage: "",
		},
		{
			Action:    decodeAddress,
			Name:      "decode",
			Usage:     "Print the collection or token behind an address",
			ArgsUsage: "<address>",
		},
	},
}

func selectedKinds(ctx *cli.Context) ([]collection.Kind, error) {
	if !ctx.IsSet(kindFlag.Name) {
		return []collection.Kind{collection.Fungible, collection.NonFungible, collection.Refungible}, nil
	}
	kind, err := collection.ParseKind(ctx.String(kindFlag.Name))
	if err != nil {
		return nil, err
	}
	return []collection.Kind{kind}, nil
}

func served(token bool) string {
	if token {
		return "token"
	}
	return "collection"
}

func printSelectors(ctx *cli.Context) error {
	kinds, err := selectedKinds(ctx)
	if err != nil {
		return err
	}
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoWrapText(false)
	if ctx.Bool(interfacesFlag.Name) {
		table.SetHeader([]string{"Kind", "Address", "Interface", "ID"})
		for _, kind := range kinds {
			for _, iface := range precompile.Interfaces(kind) {
				table.Append([]string{kind.String(), served(iface.Token), iface.Name, iface.ID.Hex()})
			}
		}
	} else {
		table.SetHeader([]string{"Kind", "Address", "Interface", "Signature", "Selector", "Mutability"})
		for _, kind := range kinds {
			for _, sig := range precompile.Signatures(kind) {
				mutability := "nonpayable"
				if sig.View {
					mutability = "view"
				}
				table.Append([]string{kind.String(), served(sig.Token), sig.Interface, sig.Signature, sig.Selector.Hex(), mutability})
			}
		}
	}
	table.Render()
	return nil
}

func encodeAddress(ctx *cli.Context) error {
	id := ctx.Uint(collectionFlag.Name)
	if uint64(id) > uint64(^uint32(0)) {
		return fmt.Errorf("collection id %d out of range", id)
	}
	target := addrspace.Target{Collection: collection.ID(id)}
	if ctx.IsSet(tokenFlag.Name) {
		token := ctx.Uint(tokenFlag.Name)
		if uint64(token) > uint64(^uint32(0)) {
			return fmt.Errorf("token id %d out of range", token)
		}
		target.Token, target.IsToken = collection.TokenID(token), true
	}
	fmt.Fprintln(ctx.App.Writer, target.Address().Hex())
	return nil
}

func decodeAddress(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("expected one address argument")
	}
	arg := ctx.Args().First()
	if !common.IsHexAddress(arg) {
		return fmt.Errorf("invalid address %q", arg)
	}
	target, ok := addrspace.Decode(common.HexToAddress(arg))
	if !ok {
		return fmt.Errorf("%s is not a collection or token address", arg)
	}
	w := ctx.App.Writer
	fmt.Fprintln(w, "collection:", strconv.FormatUint(uint64(target.Collection), 10))
	if target.IsToken {
		fmt.Fprintln(w, "token:     ", strconv.FormatUint(uint64(target.Token), 10))
	}
	return nil
}
