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

package debug

import (
	"errors"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ledgerbridge/evmbridge/internal/flags"
)

var errProfiling = errors.New("CPU profile already running")

var profiler cpuProfiler

// cpuProfiler owns the CPU profile requested with --pprof.cpuprofile.
type cpuProfiler struct {
	mu   sync.Mutex
	file *os.File
}

func (p *cpuProfiler) start(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file != nil {
		return errProfiling
	}
	f, err := os.Create(expandHome(path))
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}
	p.file = f
	log.Info("CPU profiling started", "file", f.Name())
	return nil
}

// stop ends the profile, if any, and reports whether one was running.
func (p *cpuProfiler) stop() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return false
	}
	pprof.StopCPUProfile()
	log.Info("CPU profile written", "file", p.file.Name())
	p.file.Close()
	p.file = nil
	return true
}

// expandHome replaces a leading ~ with the home directory of the current
// user.
func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~\\") {
		if home := flags.HomeDir(); home != "" {
			p = home + p[1:]
		}
	}
	return filepath.Clean(p)
}
