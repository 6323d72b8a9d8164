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
	"errors"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ledgerbridge/evmbridge/sponsor"
)

var errNegativeBudget = errors.New("call budget must not be negative")

// Config are the configuration options of the bridge router.
type Config struct {
	// CallBudget bounds the number of nested synthetic address calls a
	// single top level call may make. Zero disables nested calls.
	CallBudget int

	// Throttle windows, in blocks, for collections without their own.
	DefaultSponsorTransferTimeout uint32
	DefaultSponsorApproveTimeout  uint32
}

// DefaultConfig contains the default router settings.
var DefaultConfig = Config{
	CallBudget:                    5,
	DefaultSponsorTransferTimeout: sponsor.DefaultTransferTimeout,
	DefaultSponsorApproveTimeout:  sponsor.DefaultApproveTimeout,
}

// Validate reports configuration values the router cannot run with.
func (config *Config) Validate() error {
	if config.CallBudget < 0 {
		return errNegativeBudget
	}
	return nil
}

// sanitize checks the provided user configurations and changes anything
// that's unreasonable or unworkable.
func (config *Config) sanitize() Config {
	conf := *config
	if conf.CallBudget < 0 {
		log.Warn("Sanitizing invalid bridge call budget", "provided", conf.CallBudget, "updated", 0)
		conf.CallBudget = 0
	}
	return conf
}
