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
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/ledgerbridge/evmbridge/precompile"
	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"
)

var dumpConfigCommand = &cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Export configuration values in a TOML format",
	ArgsUsage:   "<dumpfile (optional)>",
	Description: `The dumpconfig command shows configuration values.`,
}

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) && rt.PkgPath() != "main" {
			link = fmt.Sprintf(", see https://godoc.org/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

// databaseConfig selects and sizes the ledger database.
type databaseConfig struct {
	Engine  string // "pebble", "leveldb" or "memory"; empty picks what the datadir holds
	Cache   int    // megabytes
	Handles int
}

var defaultDatabaseConfig = databaseConfig{
	Cache:   128,
	Handles: 256,
}

type bridgeConfig struct {
	Bridge   precompile.Config
	Database databaseConfig
	Genesis  genesisConfig
}

func loadConfig(file string, cfg *bridgeConfig) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	return err
}

// loadBaseConfig loads the configuration from the defaults, the config
// file and the command line flags, in increasing order of precedence.
func loadBaseConfig(ctx *cli.Context) (bridgeConfig, error) {
	cfg := bridgeConfig{
		Bridge:   precompile.DefaultConfig,
		Database: defaultDatabaseConfig,
	}
	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	applyDatabaseFlags(ctx, &cfg.Database)
	applyBridgeFlags(ctx, &cfg.Bridge)
	if err := cfg.Bridge.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid bridge config: %w", err)
	}
	return cfg, nil
}

func applyDatabaseFlags(ctx *cli.Context, cfg *databaseConfig) {
	if ctx.IsSet(dbEngineFlag.Name) {
		cfg.Engine = ctx.String(dbEngineFlag.Name)
	}
	if ctx.IsSet(cacheFlag.Name) {
		cfg.Cache = ctx.Int(cacheFlag.Name)
	}
	if ctx.IsSet(handlesFlag.Name) {
		cfg.Handles = ctx.Int(handlesFlag.Name)
	}
}

func applyBridgeFlags(ctx *cli.Context, cfg *precompile.Config) {
	if ctx.IsSet(callBudgetFlag.Name) {
		cfg.CallBudget = ctx.Int(callBudgetFlag.Name)
	}
	if ctx.IsSet(sponsorTransferTimeoutFlag.Name) {
		cfg.DefaultSponsorTransferTimeout = uint32(ctx.Uint(sponsorTransferTimeoutFlag.Name))
	}
	if ctx.IsSet(sponsorApproveTimeoutFlag.Name) {
		cfg.DefaultSponsorApproveTimeout = uint32(ctx.Uint(sponsorApproveTimeoutFlag.Name))
	}
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadBaseConfig(ctx)
	if err != nil {
		return err
	}
	out, err := tomlSettings.Marshal(&cfg)
	if err != nil {
		return err
	}

	dump := ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	_, err = dump.Write(out)
	return err
}
