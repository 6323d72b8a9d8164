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

package flags

import (
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v2"
)

// NewApp creates an app with sane defaults.
func NewApp(usage, version string) *cli.App {
	app := cli.NewApp()
	app.EnableBashCompletion = true
	app.Version = withCommit(version)
	app.Usage = usage
	app.Copyright = "Copyright 2025 The evmbridge Authors"
	return app
}

// withCommit appends the VCS revision embedded by the go tool, if any.
func withCommit(version string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var commit, dirty string
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.modified":
			if s.Value == "true" {
				dirty = "-dirty"
			}
		}
	}
	if len(commit) < 8 {
		return version
	}
	return fmt.Sprintf("%s-%s%s", version, commit[:8], dirty)
}
