package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/net/ws"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging"
	loggingsinks "github.com/PriyanshuKSG/22b2165-krafton-game-assignment/logging/sinks"
	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/server"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run() error {
	// Optional .env; absence is the normal case in production.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded environment from .env")
	}

	cfg := server.ConfigFromEnv()
	addr := flag.String("addr", cfg.Addr, "listen address")
	tickRate := flag.Int("tick", cfg.TickRate, "simulation ticks per second")
	latencyMs := flag.Int("latency", int(cfg.Latency.Milliseconds()), "artificial one-way latency in milliseconds")
	flag.Parse()
	cfg.Addr = *addr
	if *tickRate > 0 {
		cfg.TickRate = *tickRate
	}
	if *latencyMs >= 0 {
		cfg.Latency = time.Duration(*latencyMs) * time.Millisecond
	}

	logger := log.Default()

	router, err := buildLoggingRouter()
	if err != nil {
		return fmt.Errorf("construct logging router: %w", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer router.Close(context.Background())

	hub := server.NewHub(cfg, logging.WithFields(router, map[string]any{"addr": cfg.Addr}))
	go hub.RunSimulation(ctx)

	wsHandler := ws.NewHandler(hub, ws.HandlerConfig{Logger: logger})

	r := mux.NewRouter()
	r.HandleFunc("/ws", wsHandler.Handle)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/diagnostics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(hub.DiagnosticsSnapshot()); err != nil {
			http.Error(w, "failed to encode", http.StatusInternalServerError)
		}
	}).Methods(http.MethodGet)

	srv := &http.Server{Addr: cfg.Addr, Handler: r}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	logger.Printf("server listening on %s (tick=%dHz, injected latency=%s)",
		cfg.Addr, cfg.TickRate, cfg.Latency)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	return nil
}

// buildLoggingRouter enables sinks from GAME_LOG_SINKS (comma separated:
// console, json); json needs GAME_LOG_JSON_PATH.
func buildLoggingRouter() (*logging.Router, error) {
	cfg := logging.DefaultConfig()
	if raw := os.Getenv("GAME_LOG_SINKS"); raw != "" {
		cfg.EnabledSinks = strings.Split(raw, ",")
	}

	var sinks []logging.NamedSink
	if cfg.HasSink("console") {
		sinks = append(sinks, logging.NamedSink{Name: "console", Sink: loggingsinks.NewConsole(os.Stdout)})
	}
	if cfg.HasSink("json") {
		path := os.Getenv("GAME_LOG_JSON_PATH")
		if path == "" {
			return nil, fmt.Errorf("json sink enabled but GAME_LOG_JSON_PATH unset")
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open json log: %w", err)
		}
		sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingsinks.NewJSON(file, cfg.JSON.FlushInterval)})
	}

	return logging.NewRouter(nil, cfg, sinks), nil
}
