package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xtding233/jetsoftime/internal/config"
	"github.com/xtding233/jetsoftime/internal/patch"
	"github.com/xtding233/jetsoftime/internal/rpc"
	"github.com/xtding233/jetsoftime/internal/settings"
)

func main() {
	log.SetPrefix("jetsoftime-server: ")
	cfg, err := config.LoadServer(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	store := settings.NewStore(cfg.SettingsFile)
	rec, status, err := store.Load()
	if err != nil {
		log.Printf("settings file: %v", err)
	}
	log.Printf("settings %s from %s", status, store.Path())

	var scripts patch.ScriptSource
	if cfg.ScriptsDir != "" {
		table, err := patch.LoadScriptDir(cfg.ScriptsDir)
		if err != nil {
			log.Fatalf("load scripts: %v", err)
		}
		scripts = table
	}

	a := newApp(store, rec, scripts, cfg.PreviewTrials, cfg.MaxPreviewTrials)
	watcher := settings.NewWatcher(store, cfg.WatchInterval, a.reload)
	watcher.Start()
	defer watcher.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	grpcServer, err := rpc.NewServer(cfg.GRPCAddr, rpc.NewService(cfg.PreviewTrials, cfg.MaxPreviewTrials))
	if err != nil {
		log.Fatal(err)
	}
	go func() {
		if err := grpcServer.Serve(ctx); err != nil {
			log.Printf("grpc: %v", err)
			stop()
		}
	}()

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: a.routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s ...", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	<-a.runner.Done()
}
