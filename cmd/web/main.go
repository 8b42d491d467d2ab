package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/theowiik/photon-phight/internal/config"
	"github.com/theowiik/photon-phight/internal/loop/server"
	"github.com/theowiik/photon-phight/internal/spectate"
)

const (
	defaultHost      = "0.0.0.0"
	defaultPort      = "8080"
	exhibitionStream = 100 * time.Millisecond
)

//go:embed index.html
var htmlPage string

func main() {
	logger := config.NewLogger(os.Stderr)

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	match, err := config.MatchFromEnv()
	if err != nil {
		logger.Fatal("match config", "err", err)
	}

	// Bot-vs-bot exhibition: nobody takes a seat on this server.
	exhibition, err := server.NewServer(server.Options{Match: match, Logger: logger.WithPrefix("exhibition")})
	if err != nil {
		logger.Fatal("failed to create exhibition", "err", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go exhibition.Run(ctx)

	hub := spectate.NewHub(logger)
	hub.Subscribe(exhibition.Bus())
	go hub.Stream(ctx, exhibition.GetSnapshot, exhibitionStream)

	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.Handle("/ws", hub)

	addr := fmt.Sprintf("%s:%s", host, port)
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting web server", "url", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", "err", err)
	}
}
