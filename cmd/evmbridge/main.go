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

// evmbridge is the command line interface to the collection bridge: it
// prints the selector tables, maps collections to their addresses and
// executes calls against a local ledger database.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ledgerbridge/evmbridge/internal/debug"
	"github.com/ledgerbridge/evmbridge/internal/flags"
	"github.com/urfave/cli/v2"
)

const (
	clientIdentifier = "evmbridge"
	clientVersion    = "0.1.0"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:     "config",
		Usage:    "TOML configuration file",
		Category: flags.MiscCategory,
	}
	dataDirFlag = &flags.DirectoryFlag{
		Name:     "datadir",
		Usage:    "Data directory for the ledger database",
		Value:    flags.DirectoryString(defaultDataDir()),
		Category: flags.DatabaseCategory,
	}
	dbEngineFlag = &cli.StringFlag{
		Name:     "db.engine",
		Usage:    "Backing database implementation to use ('pebble', 'leveldb' or 'memory')",
		Category: flags.DatabaseCategory,
	}
	cacheFlag = &cli.IntFlag{
		Name:     "cache",
		Usage:    "Megabytes of memory allocated to the database cache",
		Value:    defaultDatabaseConfig.Cache,
		Category: flags.DatabaseCategory,
	}
	handlesFlag = &cli.IntFlag{
		Name:     "handles",
		Usage:    "Number of file handles the database may keep open",
		Value:    defaultDatabaseConfig.Handles,
		Category: flags.DatabaseCategory,
	}
	callBudgetFlag = &cli.IntFlag{
		Name:     "bridge.callbudget",
		Usage:    "Nested dispatches allowed per top level call",
		Category: flags.BridgeCategory,
	}
	sponsorTransferTimeoutFlag = &cli.UintFlag{
		Name:     "sponsor.transfertimeout",
		Usage:    "Blocks between two sponsored transfers of the same subject",
		Category: flags.SponsorCategory,
	}
	sponsorApproveTimeoutFlag = &cli.UintFlag{
		Name:     "sponsor.approvetimeout",
		Usage:    "Blocks between two sponsored approvals of the same subject",
		Category: flags.SponsorCategory,
	}
)

var (
	databaseFlags = []cli.Flag{
		dataDirFlag,
		dbEngineFlag,
		cacheFlag,
		handlesFlag,
	}
	bridgeFlags = []cli.Flag{
		callBudgetFlag,
		sponsorTransferTimeoutFlag,
		sponsorApproveTimeoutFlag,
	}
)

var app = flags.NewApp("the native collection bridge command line interface", clientVersion)

func init() {
	app.Name = clientIdentifier
	app.Commands = []*cli.Command{
		selectorsCommand,
		addressCommand,
		initCommand,
		callCommand,
		dumpConfigCommand,
	}
	app.Flags = append([]cli.Flag{configFileFlag}, databaseFlags...)
	app.Flags = append(app.Flags, bridgeFlags...)
	app.Flags = append(app.Flags, debug.Flags...)

	app.Before = func(ctx *cli.Context) error {
		return debug.Setup(ctx)
	}
	app.After = func(ctx *cli.Context) error {
		debug.Exit()
		return nil
	}
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultDataDir() string {
	if home := flags.HomeDir(); home != "" {
		return filepath.Join(home, ".evmbridge")
	}
	return ""
}
