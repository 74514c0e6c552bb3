package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/nicojahn/readme-refresh/internal/api"
	"github.com/nicojahn/readme-refresh/internal/api/github"
	"github.com/nicojahn/readme-refresh/internal/config"
	"github.com/nicojahn/readme-refresh/internal/daemon"
	"github.com/nicojahn/readme-refresh/internal/service"
)

var cli struct {
	Config string `short:"c" help:"Configuration file path" default:"readme-refresh.yaml"`

	Update struct {
		DryRun bool `help:"Render the updated README to stdout instead of writing the file"`
	} `cmd:"" default:"1" help:"Update the README once and exit"`

	Daemon struct{} `cmd:"" help:"Keep the README updated: periodic refresh, template watching and a status endpoint"`
}

func main() {
	// A missing .env is fine; the token may come from the real environment.
	_ = godotenv.Load()

	kctx := kong.Parse(&cli)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	svc, err := buildService(cfg)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	switch kctx.Command() {
	case "update":
		runUpdate(svc)
	case "daemon":
		runDaemon(cfg, svc)
	}
}

// buildService wires up all dependencies and returns the configured service.
// This is the composition root where all dependencies are created and injected.
// Follows SOLID principles and IoC (Inversion of Control).
func buildService(cfg *config.Config) (*service.ReadmeService, error) {
	httpClient := &http.Client{
		Timeout: 10 * time.Second, // Set reasonable timeout for API requests
	}

	githubClient := github.NewClient(api.ClientConfig{
		BaseURL: cfg.GitHubURL,
		Token:   cfg.GitHubToken,
	}, httpClient)

	// Wrap with caching layer unless disabled
	var client service.RepositoryClient = githubClient
	if cfg.CacheDurationSeconds > 0 {
		client = api.NewCachingClient(githubClient, cfg.CacheDuration())
	}

	return service.NewReadmeService(client, cfg, log.Default())
}

func runUpdate(svc *service.ReadmeService) {
	ctx := context.Background()

	if cli.Update.DryRun {
		if err := svc.Render(ctx, os.Stdout); err != nil {
			log.Fatalf("Update failed: %v", err)
		}
		return
	}

	changed, err := svc.Refresh(ctx)
	if err != nil {
		log.Fatalf("Update failed: %v", err)
	}
	if changed {
		log.Printf("Done")
	} else {
		log.Printf("Already up to date")
	}
}

func runDaemon(cfg *config.Config, svc *service.ReadmeService) {
	d, err := daemon.New(cfg, svc, log.Default())
	if err != nil {
		log.Fatalf("Failed to build daemon: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.Start(ctx); err != nil {
		log.Fatalf("Daemon failed to start: %v", err)
	}

	<-ctx.Done()
	d.Stop()
}
