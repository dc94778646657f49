// Package metrics provides Prometheus metrics for the card catalog service.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokecatalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokecatalog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Search Pipeline Metrics
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokecatalog_searches_total",
			Help: "Completed searches by outcome",
		},
		[]string{"outcome"}, // "ok", "no_match", "invalid", "error", "superseded"
	)

	SearchResultCards = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pokecatalog_search_result_cards",
			Help:    "Unique cards produced per successful search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
	)

	PipelineCollectionSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokecatalog_pipeline_collection_size",
			Help: "Cards in the currently loaded collection",
		},
	)

	// TCGdex API Metrics
	TCGdexRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokecatalog_tcgdex_requests_total",
			Help: "TCGdex API requests by endpoint and result",
		},
		[]string{"endpoint", "result"}, // endpoint: "search", "card", "list"; result: "success", "error", "not_found"
	)

	TCGdexRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pokecatalog_tcgdex_request_duration_seconds",
			Help:    "TCGdex API call latency",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Market Price Metrics
	PriceCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokecatalog_price_cache_hits_total",
			Help: "Price snapshot cache hit count",
		},
	)

	PriceCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokecatalog_price_cache_misses_total",
			Help: "Price snapshot cache miss count",
		},
	)

	PriceSnapshotsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokecatalog_price_snapshots_generated_total",
			Help: "Simulated market price snapshots generated",
		},
	)

	// Pokedex Metrics
	PokedexCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokecatalog_pokedex_cards_total",
			Help: "Total owned cards across all pokédexes",
		},
	)

	PokedexValueUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokecatalog_pokedex_value_usd",
			Help: "Estimated value of all pokédex cards in USD",
		},
	)
)

// UpdatePokedexMetrics refreshes the pokédex gauges from the database.
func UpdatePokedexMetrics(db *gorm.DB) {
	var totalCards int
	db.Table("pokedex_items").Select("COALESCE(SUM(quantity), 0)").Scan(&totalCards)
	PokedexCardsTotal.Set(float64(totalCards))

	var totalValue float64
	db.Table("pokedex_items").
		Select("COALESCE(SUM(COALESCE(market_price, 0) * quantity), 0)").
		Scan(&totalValue)
	PokedexValueUSD.Set(float64(totalValue))
}
