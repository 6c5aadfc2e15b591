// Package logparse extracts the signal lines from raw CI build logs.
//
// What counts as signal is configuration, not mechanism: the marker token
// selects the level-tagged lines worth surfacing on a pull request, and the
// suppress list names products whose empty results should not produce a
// record at all.
package logparse

import (
	"regexp"
	"strings"

	"github.com/w3c/prbuildbot/internal/domain/model"
)

// DefaultMarkerToken is the log tag emitted by the stability checker in
// web-platform-tests jobs.
const DefaultMarkerToken = "check_stability"

// JobLog pairs one job's raw log text with the section title it feeds.
type JobLog struct {
	JobID int64
	Title string
	Raw   string
}

// Config tunes extraction.
type Config struct {
	// MarkerToken selects kept lines: a line survives when it contains
	// ":<token>:" and is not tagged DEBUG. Defaults to DefaultMarkerToken.
	MarkerToken string
	// SuppressEmptyTitles lists section titles whose records are dropped
	// when extraction yields no text.
	SuppressEmptyTitles []string
}

// Extractor turns raw job logs into ordered log records.
type Extractor struct {
	token         string
	needle        string
	levelPrefixRe *regexp.Regexp
	suppressEmpty map[string]bool
}

// NewExtractor creates an Extractor for the given configuration.
func NewExtractor(cfg Config) *Extractor {
	token := cfg.MarkerToken
	if token == "" {
		token = DefaultMarkerToken
	}

	suppress := make(map[string]bool, len(cfg.SuppressEmptyTitles))
	for _, title := range cfg.SuppressEmptyTitles {
		suppress[title] = true
	}

	return &Extractor{
		token:  token,
		needle: ":" + token + ":",
		// Anchored per line; applied once to the joined text, not per line.
		levelPrefixRe: regexp.MustCompile(`(?m)^[A-Z]+:` + regexp.QuoteMeta(token) + `:`),
		suppressEmpty: suppress,
	}
}

// Extract produces one record per log, in input order. Each log is
// deduplicated line-by-line (exact repeats keep their first occurrence,
// defending against the provider duplicating streamed chunks), filtered down
// to marker-tagged non-debug lines, and stripped of the level prefix.
// Records with empty text are still emitted unless their title is configured
// for suppression.
func (e *Extractor) Extract(logs []JobLog) []model.LogRecord {
	records := make([]model.LogRecord, 0, len(logs))
	for _, l := range logs {
		text := e.extractText(l.Raw)
		if text == "" && e.suppressEmpty[l.Title] {
			continue
		}
		records = append(records, model.LogRecord{
			JobID: l.JobID,
			Title: l.Title,
			Text:  text,
		})
	}
	return records
}

func (e *Extractor) extractText(raw string) string {
	seen := make(map[string]bool)
	var kept []string

	for _, line := range strings.Split(raw, "\n") {
		if seen[line] {
			continue
		}
		seen[line] = true

		if !strings.Contains(line, e.needle) || strings.Contains(line, "DEBUG:") {
			continue
		}

		// A blank line ahead of the results table keeps it visually
		// separate from the preceding narrative.
		if strings.Contains(line, "Subtest") {
			kept = append(kept, "")
		}
		kept = append(kept, line)
	}

	return e.levelPrefixRe.ReplaceAllString(strings.Join(kept, "\n"), "")
}
