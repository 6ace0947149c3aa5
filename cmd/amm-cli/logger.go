// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ava-labs/hyperamm/config"
	"github.com/ava-labs/hyperamm/consts"
)

// newLogger writes colored logs to stderr and, if configured, JSON logs to
// a rotated file.
func newLogger(c config.Config) (logging.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(level, os.Stderr, logging.Colors.ConsoleEncoder()),
	}
	if c.LogFile != "" {
		rw := &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    c.LogMaxSizeMB, // megabytes
			MaxBackups: c.LogMaxBackups,
		}
		cores = append(cores, logging.NewWrappedCore(level, rw, logging.JSON.FileEncoder()))
	}
	return logging.NewLogger(consts.Name, cores...), nil
}
