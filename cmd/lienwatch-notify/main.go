package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bluegrassdata/lienwatch/internal/classify"
	"github.com/bluegrassdata/lienwatch/internal/config"
	"github.com/bluegrassdata/lienwatch/internal/leadstore"
	"github.com/bluegrassdata/lienwatch/internal/notify"
)

func main() {
	overall := flag.String("overall", "", "only notify leads with this overall score: good, review, or bad (empty = all)")
	dryRun := flag.Bool("dry-run", false, "format the message but do not post it")
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	filter := classify.Overall(*overall)
	switch filter {
	case "", classify.OverallGood, classify.OverallReview, classify.OverallBad:
	default:
		log.Fatalf("invalid -overall %q", *overall)
	}

	store, err := leadstore.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open lead store (%s): %v", cfg.DBPath, err)
	}
	defer store.Close()

	leads := store.ListLeads(filter)
	if len(leads) == 0 {
		log.Print("no leads to notify")
		return
	}

	msg := notify.Format(leads)
	if *dryRun {
		fmt.Printf("%s\n%d leads, %d blocks, truncated=%v\n", msg.FallbackText, len(leads), len(msg.Blocks), msg.Truncated)
		return
	}

	if cfg.WebhookURL == "" {
		log.Fatal("no webhook URL configured (set webhook_url or LIENWATCH_WEBHOOK_URL)")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := notify.NewWebhookClient(cfg.WebhookURL)
	if err := client.Send(ctx, msg); err != nil {
		log.Fatalf("webhook delivery: %v", err)
	}
	log.Printf("notified %d leads in %d blocks (truncated=%v)", len(leads), len(msg.Blocks), msg.Truncated)
}
