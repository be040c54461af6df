// Package propertydata looks up optional property facts (sale date,
// neighborhood grade, bedroom and bathroom counts) from the county PVA site.
// The classifier consumes these facts through the Source interface and never
// touches the browser handle.
package propertydata

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/bluegrassdata/lienwatch/internal/classify"
)

// Source supplies facts for one cleaned property address. A lookup that
// finds the parcel but not every field returns partial facts and no error.
type Source interface {
	Lookup(ctx context.Context, cleanedAddress string) (classify.Facts, error)
}

const lookupTimeout = 45 * time.Second

// PVASource drives a headless browser against the county PVA property
// search. The search page is script-rendered, so a plain GET is not enough.
type PVASource struct {
	baseURL    string
	chromePath string
}

func NewPVASource(baseURL string) *PVASource {
	return &PVASource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		chromePath: detectChromePath(),
	}
}

func (s *PVASource) Lookup(ctx context.Context, cleanedAddress string) (classify.Facts, error) {
	if strings.TrimSpace(cleanedAddress) == "" {
		return classify.Facts{}, fmt.Errorf("address is required")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	}
	if s.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(s.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(timeoutCtx, append(chromedp.DefaultExecAllocatorOptions[:], opts...)...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	searchURL := s.baseURL + "/property-search/?search=" + url.QueryEscape(cleanedAddress)
	var pageHTML string
	if err := chromedp.Run(taskCtx,
		chromedp.Navigate(searchURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
	); err != nil {
		return classify.Facts{}, fmt.Errorf("pva page fetch: %w", err)
	}

	facts, err := parseParcelPage(pageHTML)
	if err != nil {
		return classify.Facts{}, fmt.Errorf("pva parse for %q: %w", cleanedAddress, err)
	}
	return facts, nil
}

func detectChromePath() string {
	candidates := []string{
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/usr/bin/google-chrome",
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// StaticSource serves fixed facts, for tests and offline runs.
type StaticSource struct {
	Facts classify.Facts
	Err   error
}

func (s *StaticSource) Lookup(context.Context, string) (classify.Facts, error) {
	return s.Facts, s.Err
}
