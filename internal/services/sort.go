package services

import (
	"sort"
	"strings"

	"pokecatalog/internal/models"
)

// SortCards orders cards in place by the active key and direction. The sort
// is stable: ties keep their relative input order, since no tiebreaker is
// defined for any key.
func SortCards(cards []models.Card, settings models.SortSettings) {
	dir := 1
	if settings.Direction == models.SortDescending {
		dir = -1
	}

	sort.SliceStable(cards, func(i, j int) bool {
		return compareCards(&cards[i], &cards[j], settings.Key, dir) < 0
	})
}

// compareCards returns a signed comparison with the direction already
// applied. Missing-rarity cards sort after present ones in ascending order
// and before them in descending order, matching a full comparator flip.
func compareCards(a, b *models.Card, key models.SortKey, dir int) int {
	switch key {
	case models.SortByName:
		return strings.Compare(a.Name, b.Name) * dir

	case models.SortByRarity:
		switch {
		case a.Rarity == "" && b.Rarity == "":
			return 0
		case a.Rarity == "":
			return dir
		case b.Rarity == "":
			return -dir
		}
		return strings.Compare(a.Rarity, b.Rarity) * dir

	case models.SortByHP:
		aHP, _ := a.HPValue()
		bHP, _ := b.HPValue()
		switch {
		case aHP < bHP:
			return -dir
		case aHP > bHP:
			return dir
		}
		return 0

	case models.SortByReleaseDate:
		return strings.Compare(a.ReleaseDate(), b.ReleaseDate()) * dir
	}

	return 0
}
