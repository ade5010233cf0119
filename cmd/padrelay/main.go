package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qwertybob1978/msi-gamecontroller-cli/internal/config"
	"github.com/qwertybob1978/msi-gamecontroller-cli/internal/relay"
)

//go:embed static
var staticFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGINT,
	)
	defer stop()

	var (
		configPath = flag.String("config", "", "path to padctl.yaml")
		addr       = flag.String("addr", getenvDefault("PADRELAY_ADDR", ""), "listen address (overrides config)")
		staticDir  = flag.String("static", "", "serve this directory instead of the embedded page")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	})))

	if *addr == "" {
		*addr = cfg.Relay.Addr
	}
	if *staticDir == "" {
		*staticDir = cfg.Relay.StaticDir
	}

	hub := relay.NewHub()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub.Handler())
	if *staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(*staticDir)))
	} else {
		pages, err := fs.Sub(staticFS, "static")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		mux.Handle("/", http.FileServer(http.FS(pages)))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		hub.Close()
	}()

	slog.Info("relay listening", slog.String("addr", *addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("relay server", slog.Any("error", err))
		os.Exit(1)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
