package services

import (
	"log"
	"sync"

	"pokecatalog/internal/metrics"
	"pokecatalog/internal/models"
)

// CardsPerPage is the pagination step: the initial visible count and the
// increment applied by LoadMore.
const CardsPerPage = 12

// Pipeline holds the current card collection and its presentation state:
// filter and sort settings, the pagination cursor, and the per-result-set
// price-loaded flag. The collection is replaced wholesale by each search;
// filter and sort settings persist across searches.
//
// Searches are tagged with a monotonically increasing sequence so a slow
// earlier search can never overwrite the results of a later one.
type Pipeline struct {
	mu           sync.RWMutex
	cards        []models.Card
	filters      models.Filters
	sort         models.SortSettings
	visible      int
	pricesLoaded bool
	seq          uint64
}

// PipelineView is a consistent snapshot of the visible page and its
// surrounding state, taken under one lock acquisition.
type PipelineView struct {
	Cards         []models.Card        `json:"cards"`
	TotalCards    int                  `json:"total_cards"`
	FilteredCards int                  `json:"filtered_cards"`
	VisibleCount  int                  `json:"visible_count"`
	Filters       models.Filters       `json:"filters"`
	Sort          models.SortSettings  `json:"sort"`
	Options       models.FilterOptions `json:"options"`
	Stats         models.CardStats     `json:"stats"`
	PricesLoaded  bool                 `json:"prices_loaded"`
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		filters: models.DefaultFilters(),
		sort:    models.DefaultSortSettings(),
		visible: CardsPerPage,
	}
}

// BeginSearch registers a new search invocation and returns its sequence
// token. Results carry the token back through ApplyResults.
func (p *Pipeline) BeginSearch() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	return p.seq
}

// ApplyResults installs a replacement collection if the given sequence is
// still the latest search. Returns false when the invocation has been
// superseded, in which case the results are dropped.
//
// Installing a collection resets the pagination cursor and the price-loaded
// flag, and re-derives the filter HP ceiling from the new cards.
func (p *Pipeline) ApplyResults(seq uint64, cards []models.Card) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq != p.seq {
		log.Printf("Search pipeline: dropping %d stale results (seq %d, current %d)", len(cards), seq, p.seq)
		return false
	}

	p.cards = cards
	p.visible = CardsPerPage
	p.pricesLoaded = false
	p.filters.MaxHP = CollectFilterOptions(cards).MaxHP

	metrics.PipelineCollectionSize.Set(float64(len(cards)))
	return true
}

// Cards returns a copy of the full loaded collection.
func (p *Pipeline) Cards() []models.Card {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Card, len(p.cards))
	copy(out, p.cards)
	return out
}

// CardByID returns the loaded card with the given id, or nil.
func (p *Pipeline) CardByID(id string) *models.Card {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for i := range p.cards {
		if p.cards[i].ID == id {
			card := p.cards[i]
			return &card
		}
	}
	return nil
}

// SetFilters replaces the filter state. The caller validates MinHP <= MaxHP.
func (p *Pipeline) SetFilters(f models.Filters) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filters = f
}

// ResetFilters clears all constraints, restoring the HP ceiling derived from
// the loaded collection.
func (p *Pipeline) ResetFilters() models.Filters {
	p.mu.Lock()
	defer p.mu.Unlock()
	f := models.DefaultFilters()
	f.MaxHP = CollectFilterOptions(p.cards).MaxHP
	p.filters = f
	return f
}

// SetSort replaces the sort settings. The caller validates key and direction.
func (p *Pipeline) SetSort(s models.SortSettings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sort = s
}

// LoadMore grows the visible window by one page and returns the new visible
// count. The count may exceed the filtered list length; slicing clamps.
func (p *Pipeline) LoadMore() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible += CardsPerPage
	return p.visible
}

// PricesLoaded reports whether the current result set has been price-enriched.
func (p *Pipeline) PricesLoaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pricesLoaded
}

// SetPrices attaches snapshots to the loaded cards by id and marks the
// current result set enriched.
func (p *Pipeline) SetPrices(prices map[string]models.PriceSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.cards {
		if snap, ok := prices[p.cards[i].ID]; ok {
			s := snap
			p.cards[i].MarketPrices = &s
		}
	}
	p.pricesLoaded = true
}

// VisibleCards returns the filtered, sorted prefix currently exposed by the
// pagination cursor.
func (p *Pipeline) VisibleCards() []models.Card {
	return p.View().Cards
}

// View assembles the filtered, sorted, paginated snapshot plus the derived
// options and stats for the current state.
func (p *Pipeline) View() PipelineView {
	p.mu.RLock()
	defer p.mu.RUnlock()

	filtered := FilterCards(p.cards, p.filters)
	SortCards(filtered, p.sort)

	visible := filtered
	if p.visible < len(filtered) {
		visible = filtered[:p.visible]
	}
	page := make([]models.Card, len(visible))
	copy(page, visible)

	return PipelineView{
		Cards:         page,
		TotalCards:    len(p.cards),
		FilteredCards: len(filtered),
		VisibleCount:  p.visible,
		Filters:       p.filters,
		Sort:          p.sort,
		Options:       CollectFilterOptions(p.cards),
		Stats:         ComputeStats(filtered),
		PricesLoaded:  p.pricesLoaded,
	}
}
