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

// Package debug configures logging and profiling from command line flags.
package debug

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/ethereum/go-ethereum/metrics/exp"
	"github.com/ledgerbridge/evmbridge/internal/flags"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	verbosityFlag = &cli.IntFlag{
		Name:     "verbosity",
		Usage:    "Log level: 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value:    3,
		Category: flags.LoggingCategory,
	}
	vmoduleFlag = &cli.StringFlag{
		Name:     "log.vmodule",
		Usage:    "Per-file log level overrides, e.g. router.go=5,state/*=4",
		Category: flags.LoggingCategory,
	}
	logFormatFlag = &cli.StringFlag{
		Name:     "log.format",
		Usage:    "Log record format (terminal, logfmt or json)",
		Value:    "terminal",
		Category: flags.LoggingCategory,
	}
	logFileFlag = &cli.StringFlag{
		Name:     "log.file",
		Usage:    "Also write log records to this file",
		Category: flags.LoggingCategory,
	}
	logRotateFlag = &cli.BoolFlag{
		Name:     "log.rotate",
		Usage:    "Rotate the log file once it reaches --log.maxsize",
		Category: flags.LoggingCategory,
	}
	logMaxSizeFlag = &cli.IntFlag{
		Name:     "log.maxsize",
		Usage:    "Size in MB at which a rotated log file is cut",
		Value:    100,
		Category: flags.LoggingCategory,
	}
	logMaxBackupsFlag = &cli.IntFlag{
		Name:     "log.maxbackups",
		Usage:    "Number of rotated log files kept",
		Value:    10,
		Category: flags.LoggingCategory,
	}
	logMaxAgeFlag = &cli.IntFlag{
		Name:     "log.maxage",
		Usage:    "Days a rotated log file is kept",
		Value:    30,
		Category: flags.LoggingCategory,
	}
	logCompressFlag = &cli.BoolFlag{
		Name:     "log.compress",
		Usage:    "Gzip rotated log files",
		Category: flags.LoggingCategory,
	}
	// metricsFlag is read by the metrics package itself, from the raw
	// arguments, before any meter is registered.
	metricsFlag = &cli.BoolFlag{
		Name:     "metrics",
		Usage:    "Enable the bridge meters (only as a bare --metrics argument)",
		Category: flags.LoggingCategory,
	}
	pprofFlag = &cli.BoolFlag{
		Name:     "pprof",
		Usage:    "Serve pprof and the bridge meters over HTTP",
		Category: flags.LoggingCategory,
	}
	pprofAddrFlag = &cli.StringFlag{
		Name:     "pprof.addr",
		Usage:    "Listen address of the pprof server",
		Value:    "127.0.0.1:6060",
		Category: flags.LoggingCategory,
	}
	cpuProfileFlag = &cli.StringFlag{
		Name:     "pprof.cpuprofile",
		Usage:    "Write a CPU profile of the whole run to this file",
		Category: flags.LoggingCategory,
	}
)

// Flags are the logging and profiling flags read by Setup.
var Flags = []cli.Flag{
	verbosityFlag,
	vmoduleFlag,
	logFormatFlag,
	logFileFlag,
	logRotateFlag,
	logMaxSizeFlag,
	logMaxBackupsFlag,
	logMaxAgeFlag,
	logCompressFlag,
	metricsFlag,
	pprofFlag,
	pprofAddrFlag,
	cpuProfileFlag,
}

var errRotateNoFile = errors.New("--log.rotate needs --log.file")

// LogConfig describes where and how log records are written.
type LogConfig struct {
	Verbosity int
	Vmodule   string
	Format    string
	File      string

	Rotate     bool
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

func logConfigFromFlags(ctx *cli.Context) LogConfig {
	return LogConfig{
		Verbosity:  ctx.Int(verbosityFlag.Name),
		Vmodule:    ctx.String(vmoduleFlag.Name),
		Format:     ctx.String(logFormatFlag.Name),
		File:       ctx.String(logFileFlag.Name),
		Rotate:     ctx.Bool(logRotateFlag.Name),
		MaxSize:    ctx.Int(logMaxSizeFlag.Name),
		MaxBackups: ctx.Int(logMaxBackupsFlag.Name),
		MaxAge:     ctx.Int(logMaxAgeFlag.Name),
		Compress:   ctx.Bool(logCompressFlag.Name),
	}
}

var (
	// logFile is the open log file, closed by Exit.
	logFile io.WriteCloser

	openLog = openLogFile
)

func openLogFile(cfg LogConfig) (io.WriteCloser, error) {
	if cfg.File == "" {
		if cfg.Rotate {
			return nil, errRotateNoFile
		}
		return nil, nil
	}
	if err := validateLogLocation(filepath.Dir(cfg.File)); err != nil {
		return nil, fmt.Errorf("log file %s: %v", cfg.File, err)
	}
	if cfg.Rotate {
		return &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}, nil
	}
	return os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// newHandler builds the record handler for format. Records go to stderr,
// colored when it is a terminal, and to file if it is not nil.
func newHandler(format string, file io.Writer) (slog.Handler, error) {
	var (
		stderr = io.Writer(os.Stderr)
		color  bool
	)
	if format == "" || format == "terminal" {
		fd := os.Stderr.Fd()
		color = (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) && os.Getenv("TERM") != "dumb"
		if color {
			stderr = colorable.NewColorableStderr()
		}
	}
	out := stderr
	if file != nil {
		out = io.MultiWriter(stderr, file)
	}
	switch format {
	case "", "terminal":
		return log.NewTerminalHandler(out, color), nil
	case "logfmt":
		return log.LogfmtHandler(out), nil
	case "json":
		return log.JSONHandler(out), nil
	}
	return nil, fmt.Errorf("unknown log format: %v", format)
}

// SetupLogging installs the default logger described by cfg.
func SetupLogging(cfg LogConfig) error {
	file, err := openLog(cfg)
	if err != nil {
		return err
	}
	var w io.Writer
	if file != nil {
		w = file
	}
	fail := func(err error) error {
		if file != nil {
			file.Close()
		}
		return err
	}
	handler, err := newHandler(cfg.Format, w)
	if err != nil {
		return fail(err)
	}
	glogger := log.NewGlogHandler(handler)
	glogger.Verbosity(log.FromLegacyLevel(cfg.Verbosity))
	if err := glogger.Vmodule(cfg.Vmodule); err != nil {
		return fail(fmt.Errorf("invalid --%s: %v", vmoduleFlag.Name, err))
	}
	log.SetDefault(log.NewLogger(glogger))
	logFile = file
	if cfg.File != "" {
		log.Debug("Logging to file", "file", cfg.File, "format", cfg.Format, "rotate", cfg.Rotate)
	}
	return nil
}

// Setup configures logging and profiling from the command line. It runs
// before any command.
func Setup(ctx *cli.Context) error {
	if err := SetupLogging(logConfigFromFlags(ctx)); err != nil {
		return err
	}
	if ctx.Bool(metricsFlag.Name) && !metrics.Enabled {
		log.Warn("Metrics were not enabled at startup, pass a bare --metrics argument")
	}
	if file := ctx.String(cpuProfileFlag.Name); file != "" {
		if err := profiler.start(file); err != nil {
			return err
		}
	}
	if ctx.Bool(pprofFlag.Name) {
		StartPProf(ctx.String(pprofAddrFlag.Name))
	}
	return nil
}

// StartPProf serves net/http/pprof on address. The bridge meters are
// exported through expvar under /debug/metrics.
func StartPProf(address string) {
	exp.Exp(metrics.DefaultRegistry)
	log.Info("Starting pprof server", "addr", "http://"+address+"/debug/pprof")
	go func() {
		if err := http.ListenAndServe(address, nil); err != nil {
			log.Error("Pprof server failed", "err", err)
		}
	}()
}

// Exit stops the CPU profile and closes the log file.
func Exit() {
	profiler.stop()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

// validateLogLocation creates path and checks that it is writable.
func validateLogLocation(path string) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return err
	}
	f, err := os.CreateTemp(path, ".probe")
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(f.Name())
}
