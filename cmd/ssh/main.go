package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/theowiik/photon-phight/internal/config"
	"github.com/theowiik/photon-phight/internal/draw"
	"github.com/theowiik/photon-phight/internal/loop/client"
	"github.com/theowiik/photon-phight/internal/loop/server"
	"github.com/theowiik/photon-phight/internal/spectate"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	spectateInterval   = 100 * time.Millisecond
)

func main() {
	logger := config.NewLogger(os.Stderr)
	log.SetDefault(logger)

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	spectateAddr := config.GetEnv("SPECTATE_ADDR", "")
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "spectate", spectateAddr)

	match, err := config.MatchFromEnv()
	if err != nil {
		logger.Fatal("match config", "err", err)
	}

	// Shared game server for all SSH clients
	gameServer, err := server.NewServer(server.Options{Match: match, Logger: logger})
	if err != nil {
		logger.Fatal("failed to create game server", "err", err)
	}
	ctx, cancelServer := context.WithCancel(context.Background())
	go gameServer.Run(ctx)
	logger.Info("game server started")

	var spectateServer *http.Server
	if spectateAddr != "" {
		hub := spectate.NewHub(logger)
		hub.Subscribe(gameServer.Bus())
		go hub.Stream(ctx, gameServer.GetSnapshot, spectateInterval)

		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		spectateServer = &http.Server{Addr: spectateAddr, Handler: mux}
		go func() {
			if err := spectateServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("spectator server", "err", err)
			}
		}()
		defer hub.Close()
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware(gameServer, logger),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Notify players and wait for them to disconnect
	gameServer.Shutdown(15 * time.Second)
	cancelServer()
	logger.Info("game server stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if spectateServer != nil {
		if err := spectateServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("spectator shutdown", "err", err)
		}
	}
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs the game client.
func gameMiddleware(gs server.GameServer, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			logger.Info("new game session", "user", sess.User(), "term", pty.Term,
				"width", pty.Window.Width, "height", pty.Window.Height)

			// Terminal size tracker that updates on window changes
			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			c := client.NewClient(gs, bufio.NewReader(sess), sess, client.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Username:     sess.User(),
			})
			if err := c.Run(); err != nil {
				logger.Error("game error", "user", sess.User(), "err", err)
			}

			logger.Info("session ended", "user", sess.User())
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
