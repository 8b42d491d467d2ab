package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/user"

	"golang.org/x/term"

	"github.com/theowiik/photon-phight/internal/config"
	"github.com/theowiik/photon-phight/internal/loop/client"
	"github.com/theowiik/photon-phight/internal/loop/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// run plays one local session against the bot in the current terminal.
func run() error {
	logger, closeLog, err := config.FileLogger("LOG_FILE")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	match, err := config.MatchFromEnv()
	if err != nil {
		return err
	}
	gs, err := server.NewServer(server.Options{Match: match, Logger: logger})
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gs.Run(ctx)

	name := "you"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}

	c := client.NewClient(gs, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{Username: name})
	return c.Run()
}
