package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"droplink/internal/config"
	"droplink/internal/feed"
	"droplink/internal/metrics"
	"droplink/internal/model"
	"droplink/internal/render"
	"droplink/internal/storage"
	"droplink/internal/transport"
)

func main() {
	category := flag.String("category", "ALL", "category to show: ALL, NOTION, TABS or FILES")
	all := flag.Bool("all", false, "page through the entire feed")
	follow := flag.Bool("follow", false, "keep running and refresh on streamed messages")
	unpair := flag.Bool("unpair", false, "forget the stored server pairing and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	metrics.Register()

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *unpair {
		if err := store.DeleteCredential(ctx); err != nil {
			log.Error("delete credential", "error", err)
			os.Exit(1)
		}
		fmt.Println("Pairing removed.")
		return
	}

	cred, err := ensureCredential(ctx, store, cfg)
	if err != nil {
		log.Error("no server pairing", "error", err)
		fmt.Fprintln(os.Stderr, "Not paired. Set DROPLINK_SERVER_URL and DROPLINK_CLIENT_TOKEN to pair.")
		os.Exit(1)
	}

	client, err := transport.NewClient(cred.ServerURL, cred.ClientToken, &http.Client{Timeout: cfg.HTTPTimeout})
	if err != nil {
		log.Error("create transport", "error", err)
		os.Exit(1)
	}

	sess := feed.NewSession(client, store, nil, log)
	sess.SetCategory(parseCategory(*category))

	if err := sess.LoadInitial(ctx, cfg.PageLimit); err != nil {
		log.Error("load feed", "error", err)
		os.Exit(1)
	}
	for *all && sess.HasMore() {
		if err := sess.LoadMore(ctx, cfg.PageLimit); err != nil {
			log.Error("load more", "error", err)
			break
		}
	}

	fmt.Print(render.FormatGroups(sess.Groups(), sess.Category(), sess.HasMore()))

	if *follow {
		followStream(ctx, cred, cfg, sess, log)
	}
}

// followStream keeps the feed current: every streamed message triggers a
// refresh and a re-render. Reconnects with a flat delay until ctx ends.
func followStream(ctx context.Context, cred *model.Credential, cfg *config.Config, sess *feed.Session, log *slog.Logger) {
	stream, err := transport.NewStream(cred.ServerURL, cred.ClientToken, log)
	if err != nil {
		log.Error("create stream", "error", err)
		return
	}

	for ctx.Err() == nil {
		err := stream.Run(ctx, func(model.RawMessage) {
			if err := sess.Refresh(ctx, cfg.PageLimit); err != nil {
				log.Error("refresh", "error", err)
				return
			}
			fmt.Print(render.FormatGroups(sess.Groups(), sess.Category(), sess.HasMore()))
		})
		if err != nil {
			log.Error("stream closed", "error", err)
		}
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
	}
}

// ensureCredential loads the stored pairing, seeding it from the
// environment first when server URL and token are both configured.
func ensureCredential(ctx context.Context, store storage.Storage, cfg *config.Config) (*model.Credential, error) {
	if cfg.ServerURL != "" && cfg.ClientToken != "" {
		cred := &model.Credential{
			ServerURL:   cfg.ServerURL,
			ClientToken: cfg.ClientToken,
			ServerName:  cfg.ServerName,
		}
		if err := store.SaveCredential(ctx, cred); err != nil {
			return nil, err
		}
		return cred, nil
	}

	cred, err := store.Credential(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, feed.ErrNoCredential
	}
	return cred, err
}

func parseCategory(raw string) model.Category {
	switch strings.ToUpper(raw) {
	case "NOTION":
		return model.CategoryNotion
	case "TABS":
		return model.CategoryTabs
	case "FILES":
		return model.CategoryFiles
	default:
		return model.CategoryAll
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
