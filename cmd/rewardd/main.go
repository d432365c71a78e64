// rewardd serves the reward shaping engine to trainers over websocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"crystalrl.ai/internal/persistence/trace"
	"crystalrl.ai/internal/reward"
	"crystalrl.ai/internal/reward/gravity"
	"crystalrl.ai/internal/transport/ws"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "http listen address")
		configDir   = flag.String("configs", "./configs", "config directory")
		dataDir     = flag.String("data", "./data", "runtime data directory")
		weightsPath = flag.String("weights", "", "path to weights.yaml (default: <configs>/weights.yaml)")
		gravityPath = flag.String("gravity", "", "path to gravity.yaml (default: <configs>/gravity.yaml)")
		enginePath  = flag.String("engine", "", "path to engine.yaml (default: <configs>/engine.yaml)")
		disableLogs = flag.Bool("disable_traces", false, "disable reward/walk trace streams")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[rewardd] ", log.LstdFlags|log.Lmicroseconds)

	wp := strings.TrimSpace(*weightsPath)
	if wp == "" {
		wp = filepath.Join(*configDir, "weights.yaml")
	}
	gp := strings.TrimSpace(*gravityPath)
	if gp == "" {
		gp = filepath.Join(*configDir, "gravity.yaml")
	}
	ep := strings.TrimSpace(*enginePath)
	if ep == "" {
		ep = filepath.Join(*configDir, "engine.yaml")
	}

	cfg, err := reward.LoadConfig(ep)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("engine config not found (%s); using defaults", ep)
		} else {
			logger.Fatalf("load engine config: %v", err)
		}
	}

	// Digest-only store for the WELCOME handshake; every session gets its
	// own store so hot reloads stay single-threaded per engine.
	store := reward.NewStore(wp, logger)

	var rewardLog, walkLog trace.Sink
	var closers []interface{ Close() error }
	if *disableLogs {
		rewardLog, walkLog = trace.Nop{}, trace.Nop{}
	} else {
		rl := trace.NewRewardLogger(*dataDir)
		wl := trace.NewWalkLogger(*dataDir)
		rewardLog, walkLog = rl, wl
		closers = append(closers, rl, wl)
	}

	newEngine := func() *reward.Engine {
		var field *gravity.Field
		if cfg.GravityEnabled {
			field = gravity.NewField(gp, logger)
		}
		return reward.New(cfg, reward.NewStore(wp, logger), field, rewardLog, walkLog, logger)
	}

	server := ws.NewServer(newEngine, store.Digest, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", server.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	httpServer := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Printf("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	for _, c := range closers {
		_ = c.Close()
	}
}
