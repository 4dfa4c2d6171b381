package pages

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aristath/nwcreek/internal/clients/northwest"
	"github.com/aristath/nwcreek/internal/utils"
	"github.com/rs/zerolog"
)

// SuggestDelay is how long typing must pause before a lookup starts.
const SuggestDelay = 300 * time.Millisecond

const maxSuggestions = 8

var tickerPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// Suggestion is one entry of the search box.
type Suggestion struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// ParseDirectory reads "ticker,name" rows. A header row starting with "ticker" is skipped.
func ParseDirectory(r io.Reader) ([]Suggestion, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var out []Suggestion
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse ticker directory: %w", err)
		}
		if strings.EqualFold(rec[0], "ticker") {
			continue
		}
		out = append(out, Suggestion{Ticker: utils.NormalizeTicker(rec[0]), Name: strings.TrimSpace(rec[1])})
	}
	return out, nil
}

// Suggester answers the stock search box. Lookups are numbered; a lookup that
// finishes after a newer one began is discarded rather than cancelled.
type Suggester struct {
	api       *northwest.Client
	directory []Suggestion
	log       zerolog.Logger

	mu      sync.Mutex
	latest  uint64
	query   string
	results []Suggestion
}

// NewSuggester creates a suggester over a ticker directory. api may be nil to
// search the directory only.
func NewSuggester(api *northwest.Client, directory []Suggestion, log zerolog.Logger) *Suggester {
	return &Suggester{
		api:       api,
		directory: directory,
		log:       log.With().Str("component", "suggester").Logger(),
	}
}

// Begin registers a new query and returns its sequence number.
func (s *Suggester) Begin(query string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	s.query = query
	return s.latest
}

// Current reports whether seq is still the latest query.
func (s *Suggester) Current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.latest
}

// Lookup runs query seq. The results are kept only if seq is still the latest
// query when the lookup finishes; kept reports whether they were.
func (s *Suggester) Lookup(ctx context.Context, seq uint64, query string) (results []Suggestion, kept bool) {
	results = s.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.latest {
		s.log.Debug().Str("query", query).Uint64("seq", seq).Msg("Discarding superseded suggestions")
		return nil, false
	}
	s.results = results
	return results, true
}

// Results returns the latest query and its kept results.
func (s *Suggester) Results() (string, []Suggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query, s.results
}

// Search matches the directory by ticker prefix, then by name. A query that looks
// like a symbol missing from the directory is checked against the backend.
func (s *Suggester) Search(ctx context.Context, query string) []Suggestion {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	upper := strings.ToUpper(q)
	lower := strings.ToLower(q)

	var byTicker, byName []Suggestion
	exact := false
	for _, entry := range s.directory {
		switch {
		case entry.Ticker == upper:
			exact = true
			byTicker = append([]Suggestion{entry}, byTicker...)
		case strings.HasPrefix(entry.Ticker, upper):
			byTicker = append(byTicker, entry)
		case strings.Contains(strings.ToLower(entry.Name), lower):
			byName = append(byName, entry)
		}
	}
	sort.SliceStable(byName, func(i, j int) bool { return byName[i].Ticker < byName[j].Ticker })
	out := append(byTicker, byName...)

	if !exact && s.api != nil && tickerPattern.MatchString(upper) {
		company, err := s.api.Company(ctx, upper)
		if err != nil {
			s.log.Debug().Err(err).Str("ticker", upper).Msg("Ticker lookup failed")
		} else {
			ticker := utils.NormalizeTicker(company.Ticker)
			if ticker == "" {
				ticker = upper
			}
			out = append([]Suggestion{{Ticker: ticker, Name: company.Name}}, out...)
		}
	}

	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
