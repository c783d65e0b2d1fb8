// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// hubsyncd runs the anti-entropy sync core as a standalone process against
// the reference leveldbstore storage engine and an in-process gossip bus,
// for local development and integration testing of the sync protocol.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/hubsync/hub/comm"
	"github.com/hubsync/hub/config"
	"github.com/hubsync/hub/gossip"
	"github.com/hubsync/hub/metrics"
	"github.com/hubsync/hub/peerclient"
	"github.com/hubsync/hub/rpcserver"
	"github.com/hubsync/hub/store/leveldbstore"
)

var (
	version   string
	gitCommit string
	gitTag    string

	flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "path to a YAML config file overriding the sync core's tunables",
		},
		cli.StringFlag{
			Name:  "datadir",
			Usage: "directory holding the reference leveldbstore database",
		},
		cli.StringFlag{
			Name:  "rpc-addr",
			Usage: "address the mirrored RPC surface listens on",
		},
		cli.StringFlag{
			Name:  "peer-id",
			Usage: "this hub's gossip identity, e.g. hub/v1.0.0-<rev>",
		},
		cli.IntFlag{
			Name:  "verbosity",
			Value: int(log.LvlInfo),
			Usage: "log verbosity (0-9)",
		},
	}
)

func run(ctx *cli.Context) error {
	logHandler := log.NewGlogHandler(log.StreamHandler(os.Stderr, log.TerminalFormat(true)))
	logHandler.Verbosity(log.Lvl(ctx.Int("verbosity")))
	log.Root().SetHandler(logHandler)

	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return errors.Wrap(err, "-config")
	}
	if v := ctx.String("datadir"); v != "" {
		cfg.DataDir = v
	}
	if v := ctx.String("rpc-addr"); v != "" {
		cfg.RPCAddress = v
	}
	if v := ctx.String("peer-id"); v != "" {
		cfg.PeerID = v
	}
	if cfg.PeerID == "" {
		cfg.PeerID = fmt.Sprintf("hub/v%s-%s", orDefault(version, "dev"), orDefault(gitCommit, "nogit"))
	}
	if cfg.MetricsEnabled {
		metrics.InitializePrometheusMetrics()
	}

	storage, err := leveldbstore.Open(cfg.DataDir)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer storage.Close()

	engine := comm.NewSyncEngine(storage)

	server := rpcserver.New(engine.Trie(), storage)
	httpSrv := &http.Server{Addr: cfg.RPCAddress, Handler: server.Handler()}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("rpc server stopped", "err", err)
		}
	}()
	defer httpSrv.Close()

	bus := gossip.NewBus()
	communicator := comm.New(cfg.PeerID, orDefault(version, "dev"), engine, func(rpcAddress string) peerclient.Client {
		return rpcserver.NewClient(rpcAddress)
	})

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := communicator.Start(runCtx, storage, bus, bus); err != nil {
		return errors.Wrap(err, "start communicator")
	}
	defer communicator.Stop()

	logger.Info("hubsyncd started", "peerId", cfg.PeerID, "rpcAddr", cfg.RPCAddress, "dataDir", cfg.DataDir)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	logger.Info("hubsyncd shutting down")
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

var logger = log.New("pkg", "hubsyncd")

func main() {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	app := cli.App{
		Version:   fmt.Sprintf("%s-%s-%s", orDefault(version, "0.0.0"), orDefault(gitCommit, "nogit"), versionMeta),
		Name:      "hubsyncd",
		Usage:     "anti-entropy sync core for a peer-to-peer social-network hub",
		Copyright: "2024 hubsync",
		Flags:     flags,
		Action:    run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
