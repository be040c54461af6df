// Package docparse runs the full parse over one document's extracted text:
// legal normalization, party extraction, address extraction and scoring, and
// best-address selection. The result is constructed once and never mutated;
// re-parsing produces a fresh value.
package docparse

import (
	"context"

	"github.com/bluegrassdata/lienwatch/internal/address"
	"github.com/bluegrassdata/lienwatch/internal/party"
	"github.com/bluegrassdata/lienwatch/internal/textnorm"
)

// Config carries the fixed parse parameters: the address-scoring targets and
// the standing list of addresses to ignore (courthouse, filer offices).
type Config struct {
	Address          address.Config `json:"address"`
	IgnoredAddresses []string       `json:"ignored_addresses,omitempty"`
}

// ParseResult is everything the classifier needs from one document.
// PropertyAddress is the highest-scoring survivor of the ignore filter, nil
// when nothing address-shaped was found. MailingAddress is the defendant's
// "residing at" capture scored independently, nil when absent.
type ParseResult struct {
	Plaintiff       party.Plaintiff     `json:"plaintiff"`
	Defendant       party.Defendant     `json:"defendant"`
	PropertyAddress *address.Candidate  `json:"property_address,omitempty"`
	MailingAddress  *address.Candidate  `json:"mailing_address,omitempty"`
	AllAddresses    []address.Candidate `json:"all_addresses,omitempty"`
	RawText         string              `json:"raw_text"`
}

// Parse runs the pipeline over raw extracted text. It never fails: a document
// with no recognizable structure yields sentinel parties and nil addresses.
// The context only matters when the LLM party fallback is configured.
func Parse(ctx context.Context, rawText string, cfg Config) ParseResult {
	legal := textnorm.NormalizeForLegalParsing(rawText)

	plaintiff, defendant := party.ExtractParties(ctx, legal)

	candidates := address.FilterIgnored(address.Extract(rawText, cfg.Address), cfg.IgnoredAddresses)

	result := ParseResult{
		Plaintiff:       plaintiff,
		Defendant:       defendant,
		PropertyAddress: address.Best(candidates),
		AllAddresses:    candidates,
		RawText:         rawText,
	}
	if defendant.MailingAddress != "" {
		scored := address.ScoreCandidate(defendant.MailingAddress, cfg.Address)
		result.MailingAddress = &scored
	}
	return result
}
