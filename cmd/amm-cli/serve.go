// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/hyperamm/api"
	"github.com/ava-labs/hyperamm/config"
	"github.com/ava-labs/hyperamm/exchange"
	"github.com/ava-labs/hyperamm/pebble"
	"github.com/ava-labs/hyperamm/server"
	"github.com/ava-labs/hyperamm/simulator"
	"github.com/ava-labs/hyperamm/trace"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host exchanges and serve the query API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dataDir, err := cmd.Flags().GetString("data-dir")
		if err != nil {
			return err
		}
		genesisPath, err := cmd.Flags().GetString("genesis")
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return serve(ctx, c, dataDir, genesisPath)
	},
}

func init() {
	serveCmd.Flags().String("data-dir", "", "Directory for the pebble database (in-memory if empty)")
	serveCmd.Flags().String("genesis", "", "Genesis applied when the database is fresh")
	rootCmd.AddCommand(serveCmd)
}

func openDatabase(dataDir string, reg prometheus.Registerer) (database.Database, error) {
	if dataDir == "" {
		return memdb.New(), nil
	}
	return pebble.New(dataDir, pebble.NewDefaultConfig(), reg)
}

func applyGenesis(ctx context.Context, log logging.Logger, sim *simulator.Simulator, path string) error {
	if path == "" {
		return nil
	}
	g, err := simulator.LoadGenesis(path)
	if err != nil {
		return err
	}
	exists, err := sim.HasRegistry(ctx, g.Registry)
	if err != nil {
		return err
	}
	if exists {
		log.Info("skipping genesis", zap.String("registry", g.Registry))
		return nil
	}
	d, err := g.Apply(ctx, sim)
	if err != nil {
		return err
	}
	for pair, addr := range d.Exchanges {
		log.Info("created exchange",
			zap.String("pair", pair),
			zap.Stringer("address", addr),
		)
	}
	return nil
}

func serve(ctx context.Context, c config.Config, dataDir, genesisPath string) error {
	log, err := newLogger(c)
	if err != nil {
		return err
	}
	defer log.Stop()

	registry := prometheus.NewRegistry()
	db, err := openDatabase(dataDir, registry)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	metrics, err := exchange.NewMetrics(c.MetricsNamespace, registry)
	if err != nil {
		return err
	}
	tracer, err := trace.New(c.TraceConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := tracer.Close(); err != nil {
			log.Error("failed to close tracer", zap.Error(err))
		}
	}()
	sim := simulator.New(log, metrics, tracer, c.Exchange, db)
	if err := applyGenesis(ctx, log, sim, genesisPath); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", c.API.ListenAddress)
	if err != nil {
		return err
	}
	srv := server.New(log, listener, server.HTTPConfig{
		ReadTimeout:       c.API.ReadTimeout,
		ReadHeaderTimeout: c.API.ReadTimeout,
		WriteTimeout:      c.API.WriteTimeout,
	}, c.API.AllowedOrigins, shutdownTimeout)
	if err := api.Register(srv, sim); err != nil {
		return err
	}
	if err := api.RegisterMetrics(srv, registry); err != nil {
		return err
	}

	log.Info("serving",
		zap.String("address", listener.Addr().String()),
		zap.Bool("persistent", dataDir != ""),
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Dispatch)
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown()
	})
	return g.Wait()
}
