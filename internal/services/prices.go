package services

import (
	"context"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"pokecatalog/internal/metrics"
	"pokecatalog/internal/models"
)

// priceBatchSize bounds simultaneous snapshot generation: batches run
// sequentially, cards within a batch concurrently.
const priceBatchSize = 5

// priceCacheSize is generous enough that snapshots effectively live for the
// whole process; quotes must stay stable for a card once generated.
const priceCacheSize = 8192

// MarketPriceService produces simulated market price snapshots. TCGdex has no
// pricing endpoint, so quotes are derived from rarity keywords and HP with a
// random jitter, then cached by card id for the life of the process.
//
// The cache is constructed by the caller and injected so tests can use a
// fresh instance per test.
type MarketPriceService struct {
	cache *lru.Cache[string, models.PriceSnapshot]

	mu  sync.Mutex
	rng *rand.Rand
}

// NewPriceCache creates the card id -> snapshot cache.
func NewPriceCache() (*lru.Cache[string, models.PriceSnapshot], error) {
	return lru.New[string, models.PriceSnapshot](priceCacheSize)
}

// NewMarketPriceService creates the simulator. The seed fixes the jitter
// stream, which tests use for reproducible snapshots.
func NewMarketPriceService(cache *lru.Cache[string, models.PriceSnapshot], seed int64) *MarketPriceService {
	return &MarketPriceService{
		cache: cache,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// GetPrices returns the snapshot for a card, generating and caching one on
// first request. Cached snapshots are never regenerated.
func (s *MarketPriceService) GetPrices(card *models.Card) models.PriceSnapshot {
	if snap, ok := s.cache.Get(card.ID); ok {
		metrics.PriceCacheHits.Inc()
		return snap
	}
	metrics.PriceCacheMisses.Inc()

	snap := s.generate(card)
	s.cache.Add(card.ID, snap)
	metrics.PriceSnapshotsGenerated.Inc()
	return snap
}

// PricesFor computes snapshots for a list of cards in batches of
// priceBatchSize. Batches execute sequentially; cards within a batch
// concurrently.
func (s *MarketPriceService) PricesFor(ctx context.Context, cards []models.Card) (map[string]models.PriceSnapshot, error) {
	results := make(map[string]models.PriceSnapshot, len(cards))
	var resultsMu sync.Mutex

	for start := 0; start < len(cards); start += priceBatchSize {
		end := start + priceBatchSize
		if end > len(cards) {
			end = len(cards)
		}

		g, _ := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			card := cards[i]
			g.Go(func() error {
				snap := s.GetPrices(&card)
				resultsMu.Lock()
				results[card.ID] = snap
				resultsMu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// generate builds a snapshot from the card's rarity and HP. Later rarity
// keywords override earlier ones, so "Rainbow Rare" prices as rainbow.
func (s *MarketPriceService) generate(card *models.Card) models.PriceSnapshot {
	base := 1.0

	rarity := strings.ToLower(card.Rarity)
	if strings.Contains(rarity, "rare") {
		base = 2.0
	}
	if strings.Contains(rarity, "ultra") {
		base = 5.0
	}
	if strings.Contains(rarity, "secret") {
		base = 15.0
	}
	if strings.Contains(rarity, "hyper") {
		base = 25.0
	}
	if strings.Contains(rarity, "rainbow") {
		base = 30.0
	}
	if strings.Contains(rarity, "gold") {
		base = 40.0
	}

	if hp, ok := card.HPValue(); ok && hp > 200 {
		base *= 1.5
	}

	s.mu.Lock()
	jitter := 0.7 + s.rng.Float64()*0.6
	marketFactor := 0.9 + s.rng.Float64()*0.2
	s.mu.Unlock()

	mid := base * jitter

	return models.PriceSnapshot{
		Low:         round2(mid * 0.7),
		Mid:         round2(mid),
		High:        round2(mid * 1.3),
		Market:      round2(mid * marketFactor),
		LastUpdated: time.Now(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
