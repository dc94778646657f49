package services

import (
	"sort"

	"pokecatalog/internal/models"
)

// MatchesFilters reports whether a card passes every active constraint.
// Constraints are conjunctive across categories and disjunctive within one:
// a card needs any selected type, not all of them.
func MatchesFilters(card models.Card, f models.Filters) bool {
	if len(f.Types) > 0 {
		if len(card.Types) == 0 || !containsAny(card.Types, f.Types) {
			return false
		}
	}

	if len(f.Rarities) > 0 {
		if card.Rarity == "" || !contains(f.Rarities, card.Rarity) {
			return false
		}
	}

	if len(f.Sets) > 0 {
		setName := card.SetName()
		if setName == "" || !contains(f.Sets, setName) {
			return false
		}
	}

	if hp, ok := card.HPValue(); ok {
		if hp < f.MinHP || hp > f.MaxHP {
			return false
		}
	} else if f.MinHP > 0 {
		// No parseable HP: only passes while the floor is unconstrained.
		return false
	}

	return true
}

// FilterCards returns the cards passing the filter, preserving input order.
func FilterCards(cards []models.Card, f models.Filters) []models.Card {
	filtered := make([]models.Card, 0, len(cards))
	for _, card := range cards {
		if MatchesFilters(card, f) {
			filtered = append(filtered, card)
		}
	}
	return filtered
}

// CollectFilterOptions derives the distinct filterable values present in the
// loaded collection. MaxHP floors at models.DefaultMaxHP when no card has
// parseable HP.
func CollectFilterOptions(cards []models.Card) models.FilterOptions {
	types := make(map[string]struct{})
	rarities := make(map[string]struct{})
	sets := make(map[string]struct{})
	maxHP := 0

	for i := range cards {
		card := &cards[i]
		for _, t := range card.Types {
			types[t] = struct{}{}
		}
		if card.Rarity != "" {
			rarities[card.Rarity] = struct{}{}
		}
		if name := card.SetName(); name != "" {
			sets[name] = struct{}{}
		}
		if hp, ok := card.HPValue(); ok && hp > maxHP {
			maxHP = hp
		}
	}

	if maxHP == 0 {
		maxHP = models.DefaultMaxHP
	}

	return models.FilterOptions{
		Types:    sortedKeys(types),
		Rarities: sortedKeys(rarities),
		Sets:     sortedKeys(sets),
		MaxHP:    maxHP,
	}
}

// ComputeStats aggregates type and rarity counts over the given card list.
func ComputeStats(cards []models.Card) models.CardStats {
	stats := models.CardStats{
		TotalCards: len(cards),
		ByType:     make(map[string]int),
		ByRarity:   make(map[string]int),
	}
	for i := range cards {
		for _, t := range cards[i].Types {
			stats.ByType[t]++
		}
		if r := cards[i].Rarity; r != "" {
			stats.ByRarity[r]++
		}
	}
	return stats
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsAny(values, selected []string) bool {
	for _, v := range values {
		if contains(selected, v) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
