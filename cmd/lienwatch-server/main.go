package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bluegrassdata/lienwatch/internal/config"
	"github.com/bluegrassdata/lienwatch/internal/httpapi"
	"github.com/bluegrassdata/lienwatch/internal/leadstore"
	"github.com/bluegrassdata/lienwatch/internal/notify"
	"github.com/bluegrassdata/lienwatch/internal/propertydata"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("create data dir: %v", err)
		}
	}
	store, err := leadstore.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open lead store (%s): %v", cfg.DBPath, err)
	}
	defer store.Close()

	facts := propertydata.NewCachedSource(propertydata.NewPVASource(cfg.PVABaseURL))

	var notifier httpapi.Notifier
	if cfg.WebhookURL != "" {
		notifier = notify.NewWebhookClient(cfg.WebhookURL)
	} else {
		log.Print("no webhook URL configured; notifications disabled")
	}

	h := httpapi.NewServer(store, facts, notifier, cfg.ParseConfig())
	log.Printf("lienwatch listening on %s (db=%s, market=%s %s)", cfg.Listen, cfg.DBPath, cfg.City, cfg.State)
	if err := http.ListenAndServe(cfg.Listen, h); err != nil {
		log.Fatal(err)
	}
}
