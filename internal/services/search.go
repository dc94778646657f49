package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"pokecatalog/internal/imageurl"
	"pokecatalog/internal/metrics"
	"pokecatalog/internal/models"
	"pokecatalog/internal/tcgdex"
)

// ErrEmptyQuery is the validation failure for a query with no usable terms.
// It is a recoverable condition: no network calls are issued.
var ErrEmptyQuery = errors.New("search query contains no usable terms")

// Historian records completed searches. Satisfied by *HistoryService.
type Historian interface {
	Record(query string, resultCount int)
}

// SearchResult is the outcome of one search invocation.
type SearchResult struct {
	Cards      []models.Card `json:"cards"`
	Terms      []string      `json:"terms"`
	NoMatch    bool          `json:"no_match"`
	Superseded bool          `json:"superseded"`
}

// SearchService turns a free-text query into a deduplicated, detail-enriched
// card collection and installs it in the pipeline.
type SearchService struct {
	client   *tcgdex.Client
	pipeline *Pipeline
	history  Historian
}

func NewSearchService(client *tcgdex.Client, pipeline *Pipeline, history Historian) *SearchService {
	return &SearchService{
		client:   client,
		pipeline: pipeline,
		history:  history,
	}
}

// SplitQuery breaks a raw query into search terms: split on commas, trim,
// lowercase, drop empties.
func SplitQuery(query string) []string {
	parts := strings.Split(query, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		term := strings.ToLower(strings.TrimSpace(p))
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// Search runs the full pipeline: validate, fan out one name search per term,
// merge and dedupe by card id, enrich each unique card with its detail
// record, and install the replacement collection.
//
// Every completed invocation, including validation failures, appends one
// history entry; failures and no-matches record a result count of 0.
func (s *SearchService) Search(ctx context.Context, query string) (*SearchResult, error) {
	terms := SplitQuery(query)
	if len(terms) == 0 {
		s.history.Record(query, 0)
		metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		return nil, ErrEmptyQuery
	}

	seq := s.pipeline.BeginSearch()

	// One name search per term, concurrently. Results are indexed by term so
	// the merge below is deterministic regardless of settle order.
	perTerm := make([][]tcgdex.CardSummary, len(terms))
	g, gctx := errgroup.WithContext(ctx)
	for i, term := range terms {
		g.Go(func() error {
			summaries, err := s.client.SearchByName(gctx, term)
			if err != nil {
				return fmt.Errorf("search for %q failed: %w", term, err)
			}
			perTerm[i] = summaries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.history.Record(query, 0)
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// Merge in term order, keeping the first occurrence of each card id.
	seen := make(map[string]struct{})
	var unique []tcgdex.CardSummary
	for _, summaries := range perTerm {
		for _, summary := range summaries {
			if _, ok := seen[summary.ID]; ok {
				continue
			}
			seen[summary.ID] = struct{}{}
			unique = append(unique, summary)
		}
	}

	if len(unique) == 0 {
		s.history.Record(query, 0)
		metrics.SearchesTotal.WithLabelValues("no_match").Inc()
		s.pipeline.ApplyResults(seq, []models.Card{})
		return &SearchResult{Terms: terms, NoMatch: true}, nil
	}

	// Detail enrichment: one fetch per unique id, concurrently. A failed
	// detail fetch falls back to the summary record rather than failing the
	// whole search.
	cards := make([]models.Card, len(unique))
	var eg errgroup.Group
	for i, summary := range unique {
		eg.Go(func() error {
			detail, err := s.client.GetCard(ctx, summary.ID)
			if err != nil || detail == nil {
				if err != nil {
					log.Printf("Search pipeline: detail fetch failed for %s, using summary: %v", summary.ID, err)
				}
				cards[i] = summaryToCard(summary)
				return nil
			}
			cards[i] = *detail
			return nil
		})
	}
	eg.Wait()

	applied := s.pipeline.ApplyResults(seq, cards)
	s.history.Record(query, len(cards))

	if !applied {
		metrics.SearchesTotal.WithLabelValues("superseded").Inc()
		return &SearchResult{Cards: cards, Terms: terms, Superseded: true}, nil
	}

	metrics.SearchesTotal.WithLabelValues("ok").Inc()
	metrics.SearchResultCards.Observe(float64(len(cards)))
	log.Printf("Search pipeline: %d unique cards for query %q (%d terms)", len(cards), query, len(terms))

	return &SearchResult{Cards: cards, Terms: terms}, nil
}

// summaryToCard promotes a summary record to a displayable card with a
// normalized image URL.
func summaryToCard(summary tcgdex.CardSummary) models.Card {
	return models.Card{
		ID:      summary.ID,
		LocalID: summary.LocalID,
		Name:    summary.Name,
		Image:   imageurl.Card(summary.Image, imageurl.QualityHigh, imageurl.ExtWebP),
	}
}
