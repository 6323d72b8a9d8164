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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ledgerbridge/evmbridge/abi"
	"github.com/ledgerbridge/evmbridge/account"
	"github.com/ledgerbridge/evmbridge/addrspace"
	"github.com/ledgerbridge/evmbridge/collection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ownerHex = "0x00000000000000000000000000000000000a11ce"
	bobHex   = "0x0000000000000000000000000000000000000b0b"
)

// runApp runs the command line with args and returns what it printed.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app.Writer = &out
	defer func() { app.Writer = os.Stdout }()
	err := app.Run(append([]string{clientIdentifier, "--verbosity", "1"}, args...))
	return out.String(), err
}

func TestAddressCommands(t *testing.T) {
	out, err := runApp(t, "address", "encode", "--collection", "7")
	require.NoError(t, err)
	assert.Equal(t, addrspace.CollectionAddress(7).Hex(), strings.TrimSpace(out))

	out, err = runApp(t, "address", "encode", "--collection", "7", "--token", "3")
	require.NoError(t, err)
	tokenAddr := strings.TrimSpace(out)
	assert.Equal(t, addrspace.TokenAddress(7, 3).Hex(), tokenAddr)

	out, err = runApp(t, "address", "decode", tokenAddr)
	require.NoError(t, err)
	assert.Contains(t, out, "collection: 7")
	assert.Contains(t, out, "token:      3")

	_, err = runApp(t, "address", "decode", bobHex)
	assert.ErrorContains(t, err, "not a collection or token address")
}

func TestSelectorsCommand(t *testing.T) {
	out, err := runApp(t, "selectors", "--kind", "nonfungible")
	require.NoError(t, err)
	assert.Contains(t, out, "safeTransferFrom(address,address,uint256,bytes)")
	assert.Contains(t, out, "0xb88d4fde")
	assert.NotContains(t, out, "repartition")

	out, err = runApp(t, "selectors", "--kind", "refungible", "--interfaces")
	require.NoError(t, err)
	assert.Contains(t, out, "ERC1633")
	assert.Contains(t, out, "0x5755c3f2")

	_, err = runApp(t, "selectors", "--kind", "semifungible")
	assert.Error(t, err)
}

const testConfig = `
[Bridge]
CallBudget = 3

[Database]
Engine = "leveldb"

[[Genesis.Collections]]
Kind = "fungible"
Owner = "0x00000000000000000000000000000000000a11ce"
Name = "Gold"
TokenPrefix = "GLD"
Decimals = 18
Sponsor = "0x5905000000000000000000000000000000000000000000000000000000000001"
SponsorTransferTimeout = 10

[[Genesis.Collections.Balances]]
Owner = "0x00000000000000000000000000000000000a11ce"
Amount = "1000"

[[Genesis.Collections]]
Kind = "nonfungible"
Owner = "0x00000000000000000000000000000000000a11ce"
Name = "Art"

[[Genesis.Collections.Balances]]
Owner = "0x0000000000000000000000000000000000000b0b"
`

func writeConfig(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(testConfig), 0644))
	return file
}

func TestLoadConfig(t *testing.T) {
	var cfg bridgeConfig
	require.NoError(t, loadConfig(writeConfig(t), &cfg))
	assert.Equal(t, 3, cfg.Bridge.CallBudget)
	assert.Equal(t, "leveldb", cfg.Database.Engine)
	require.Len(t, cfg.Genesis.Collections, 2)

	gold := cfg.Genesis.Collections[0]
	assert.Equal(t, collection.Fungible, gold.Kind)
	require.NotNil(t, gold.SponsorTransferTimeout)
	assert.Equal(t, uint32(10), *gold.SponsorTransferTimeout)
	assert.Nil(t, gold.SponsorApproveTimeout)

	coll, err := gold.toCollection()
	require.NoError(t, err)
	assert.Equal(t, collection.Timeout{Set: true, Blocks: 10}, coll.Limits.SponsorTransferTimeout)
	assert.Equal(t, collection.SponsorConfirmed, coll.Sponsorship.State)

	bad := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[Bridge]\nCallBudgets = 1\n"), 0644))
	assert.ErrorContains(t, loadConfig(bad, &cfg), "CallBudgets")
}

func TestDumpConfig(t *testing.T) {
	out, err := runApp(t, "--config", writeConfig(t), "--bridge.callbudget", "9", "dumpconfig")
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "dump.toml")
	require.NoError(t, os.WriteFile(file, []byte(out), 0644))
	var cfg bridgeConfig
	require.NoError(t, loadConfig(file, &cfg))
	assert.Equal(t, 9, cfg.Bridge.CallBudget, "flags override the file")
	assert.Len(t, cfg.Genesis.Collections, 2)
}

func TestParseAccount(t *testing.T) {
	k, err := parseAccount(bobHex)
	require.NoError(t, err)
	assert.Equal(t, account.AddressToKey(common.HexToAddress(bobHex)), k)

	k, err = parseAccount("0x5905000000000000000000000000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), k[account.KeyLength-1])

	_, err = parseAccount("0x0102")
	assert.Error(t, err)
	_, err = parseAccount("b0b")
	assert.Error(t, err)
}

func word(v uint64) string {
	w := abi.NewWriter()
	w.WriteUint64(v)
	return hexutil.Encode(w.Finish())
}

func TestInitAndCall(t *testing.T) {
	config := writeConfig(t)
	datadir := t.TempDir()
	gold := addrspace.CollectionAddress(1).Hex()
	base := []string{"--config", config, "--datadir", datadir}

	_, err := runApp(t, append(base, "init")...)
	require.NoError(t, err)
	_, err = runApp(t, append(base, "init")...)
	assert.ErrorIs(t, err, errAlreadyInitialized)

	transfer := abi.NewCallWriter(abi.SelectorOf("transfer(address,uint256)"))
	transfer.WriteAddress(common.HexToAddress(bobHex))
	transfer.WriteUint64(250)
	out, err := runApp(t, append(base, "call", "--from", ownerHex, "--to", gold,
		"--input", hexutil.Encode(transfer.Finish()), "--sponsor", "--commit")...)
	require.NoError(t, err)
	assert.Contains(t, out, "sponsor: 0x5905")
	assert.Contains(t, out, "log 0:")

	balanceOf := abi.NewCallWriter(abi.SelectorOf("balanceOf(address)"))
	balanceOf.WriteAddress(common.HexToAddress(bobHex))
	out, err = runApp(t, append(base, "call", "--from", bobHex, "--to", gold, "--input", hexutil.Encode(balanceOf.Finish()))...)
	require.NoError(t, err)
	assert.Contains(t, out, "output:  "+word(250))
	assert.Contains(t, out, "sponsor: none")

	// The genesis token of the second collection belongs to bob.
	ownerOf := abi.NewCallWriter(abi.SelectorOf("ownerOf(uint256)"))
	ownerOf.WriteUint64(1)
	out, err = runApp(t, append(base, "call", "--from", bobHex, "--to", addrspace.CollectionAddress(2).Hex(), "--input", hexutil.Encode(ownerOf.Finish()))...)
	require.NoError(t, err)
	assert.Contains(t, out, strings.TrimPrefix(bobHex, "0x"))

	// Reverts print their reason and fail the command.
	out, err = runApp(t, append(base, "call", "--from", bobHex, "--to", gold, "--input", "0xdeadbeef")...)
	assert.ErrorContains(t, err, "call reverted")
	assert.Contains(t, out, "revert:  unrecognized selector")

	_, err = runApp(t, append(base, "call", "--from", bobHex, "--to", addrspace.CollectionAddress(9).Hex(), "--input", "0x18160ddd")...)
	assert.ErrorContains(t, err, "not a collection or token address in use")
}

func TestRevertedCallKeepsSponsorSlot(t *testing.T) {
	datadir := t.TempDir()
	base := []string{"--config", writeConfig(t), "--datadir", datadir}
	_, err := runApp(t, append(base, "init")...)
	require.NoError(t, err)

	gold := addrspace.CollectionAddress(1).Hex()
	transfer := func(amount uint64) string {
		w := abi.NewCallWriter(abi.SelectorOf("transfer(address,uint256)"))
		w.WriteAddress(common.HexToAddress(ownerHex))
		w.WriteUint64(amount)
		return hexutil.Encode(w.Finish())
	}
	sponsored := func(block string) (string, error) {
		return runApp(t, append(base, "call", "--from", bobHex, "--to", gold, "--input", transfer(10),
			"--block", block, "--sponsor", "--commit")...)
	}

	// Bob holds nothing yet: the call reverts but the sponsor paid for it.
	out, err := sponsored("1")
	assert.ErrorContains(t, err, "call reverted")
	assert.Contains(t, out, "sponsor: 0x5905")

	fund := abi.NewCallWriter(abi.SelectorOf("transfer(address,uint256)"))
	fund.WriteAddress(common.HexToAddress(bobHex))
	fund.WriteUint64(100)
	_, err = runApp(t, append(base, "call", "--from", ownerHex, "--to", gold, "--input", hexutil.Encode(fund.Finish()), "--commit")...)
	require.NoError(t, err)

	out, err = sponsored("2")
	require.NoError(t, err)
	assert.Contains(t, out, "sponsor: none", "the reverted call must keep its throttle slot")

	out, err = sponsored("12")
	require.NoError(t, err)
	assert.Contains(t, out, "sponsor: 0x5905")
}
