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
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ledgerbridge/evmbridge/internal/flags"
	"github.com/ledgerbridge/evmbridge/precompile"
	"github.com/ledgerbridge/evmbridge/state"
	"github.com/urfave/cli/v2"
)

var (
	fromFlag = &cli.StringFlag{
		Name:     "from",
		Usage:    "Caller address",
		Required: true,
		Category: flags.CallCategory,
	}
	toFlag = &cli.StringFlag{
		Name:     "to",
		Usage:    "Collection or token address to call",
		Required: true,
		Category: flags.CallCategory,
	}
	inputFlag = &cli.StringFlag{
		Name:     "input",
		Usage:    "Hex encoded call data",
		Required: true,
		Category: flags.CallCategory,
	}
	valueFlag = &flags.Uint256Flag{
		Name:     "value",
		Usage:    "Value sent with the call",
		Category: flags.CallCategory,
	}
	blockFlag = &cli.Uint64Flag{
		Name:     "block",
		Usage:    "Block number the call executes in",
		Value:    1,
		Category: flags.CallCategory,
	}
	sponsorFlag = &cli.BoolFlag{
		Name:     "sponsor",
		Usage:    "Ask the collection sponsor to pay for the call",
		Category: flags.CallCategory,
	}
	commitFlag = &cli.BoolFlag{
		Name:     "commit",
		Usage:    "Write the resulting state to the database, including the sponsorship record of a reverted call",
		Category: flags.CallCategory,
	}
)

var callCommand = &cli.Command{
	Action: runCall,
	Name:   "call",
	Usage:  "Execute a call against a collection or token address",
	Flags: []cli.Flag{
		fromFlag,
		toFlag,
		inputFlag,
		valueFlag,
		blockFlag,
		sponsorFlag,
		commitFlag,
	},
	Description: `
The call command executes one call through the bridge and prints its output,
the emitted logs and the sponsorship decision. State changes are discarded
unless --commit is given.`,
}

func parseAddressFlag(ctx *cli.Context, flag *cli.StringFlag) (common.Address, error) {
	s := ctx.String(flag.Name)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid --%s address %q", flag.Name, s)
	}
	return common.HexToAddress(s), nil
}

func messageFromFlags(ctx *cli.Context) (*precompile.Message, error) {
	from, err := parseAddressFlag(ctx, fromFlag)
	if err != nil {
		return nil, err
	}
	to, err := parseAddressFlag(ctx, toFlag)
	if err != nil {
		return nil, err
	}
	input, err := hexutil.Decode(ctx.String(inputFlag.Name))
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %v", inputFlag.Name, err)
	}
	return &precompile.Message{
		Caller:             from,
		To:                 to,
		Input:              input,
		Value:              flags.GlobalUint256(ctx, valueFlag.Name),
		BlockNumber:        ctx.Uint64(blockFlag.Name),
		RequestSponsorship: ctx.Bool(sponsorFlag.Name),
	}, nil
}

// runCall is the call command.
func runCall(ctx *cli.Context) error {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	msg, err := messageFromFlags(ctx)
	if err != nil {
		return err
	}
	db, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	st := state.New(db)
	bridge := precompile.New(st, cfg.Bridge)
	res, handled, callErr := bridge.Call(msg)
	if !handled {
		return fmt.Errorf("%s is not a collection or token address in use", msg.To.Hex())
	}
	printResult(ctx.App.Writer, res)
	// A failed call leaves its sponsorship record behind, which must be
	// committed like any other write.
	if ctx.Bool(commitFlag.Name) {
		if err := st.Commit(); err != nil {
			return err
		}
		log.Info("Committed call", "to", msg.To, "block", msg.BlockNumber, "reverted", callErr != nil)
	}
	if callErr != nil {
		return fmt.Errorf("call reverted: %w", callErr)
	}
	return nil
}

func printResult(w io.Writer, res *precompile.Result) {
	fmt.Fprintln(w, "output: ", hexutil.Encode(res.Output))
	if reason, err := precompile.UnpackRevert(res.Output); err == nil {
		fmt.Fprintln(w, "revert: ", reason)
	}
	if res.Sponsor != nil {
		fmt.Fprintln(w, "sponsor:", res.Sponsor.Hex())
	} else {
		fmt.Fprintln(w, "sponsor: none")
	}
	for i, l := range res.Logs {
		printLog(w, i, l)
	}
}

func printLog(w io.Writer, i int, l *types.Log) {
	fmt.Fprintf(w, "log %d:  %s\n", i, l.Address.Hex())
	for j, topic := range l.Topics {
		fmt.Fprintf(w, "  topic %d: %s\n", j, topic.Hex())
	}
	if len(l.Data) > 0 {
		fmt.Fprintf(w, "  data:    %s\n", hexutil.Encode(l.Data))
	}
}
