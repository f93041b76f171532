package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/0xsj/overwatch-follows/internal/adapter/outbound/atproto"
	"github.com/0xsj/overwatch-follows/internal/app/query"
	"github.com/0xsj/overwatch-follows/internal/cli"
	"github.com/0xsj/overwatch-follows/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := atproto.NewClient(atproto.Config{
		ServiceURL:   cfg.Atproto.ServiceURL,
		DirectoryURL: cfg.Atproto.DirectoryURL,
		Identifier:   cfg.Atproto.Identifier,
		Password:     cfg.Atproto.Password,
		Timeout:      cfg.Atproto.HTTPTimeout,
		UserAgent:    cfg.Atproto.UserAgent,
	}, nil)
	if err != nil {
		return err
	}

	cmd := cli.NewLookupCommand(query.NewLookupFollowsHandler(client, client, client, client))
	return cmd.ExecuteContext(ctx)
}
