package models

// DefaultMaxHP is the HP ceiling used before any cards are loaded, and the
// floor for the derived maximum when no loaded card has parseable HP.
const DefaultMaxHP = 300

// Filters holds the active filter state. An empty slice means no constraint
// for that category. Invariant: MinHP <= MaxHP.
type Filters struct {
	Types    []string `json:"types"`
	Rarities []string `json:"rarities"`
	Sets     []string `json:"sets"`
	MinHP    int      `json:"minHp"`
	MaxHP    int      `json:"maxHp"`
}

// DefaultFilters returns the unconstrained filter state.
func DefaultFilters() Filters {
	return Filters{
		Types:    []string{},
		Rarities: []string{},
		Sets:     []string{},
		MinHP:    0,
		MaxHP:    DefaultMaxHP,
	}
}

type SortKey string

const (
	SortByName        SortKey = "name"
	SortByHP          SortKey = "hp"
	SortByRarity      SortKey = "rarity"
	SortByReleaseDate SortKey = "releaseDate"
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// SortSettings selects the active sort key and direction.
type SortSettings struct {
	Key       SortKey       `json:"option"`
	Direction SortDirection `json:"direction"`
}

// DefaultSortSettings sorts by name ascending.
func DefaultSortSettings() SortSettings {
	return SortSettings{Key: SortByName, Direction: SortAscending}
}

// Valid reports whether the sort key is one of the supported keys.
func (k SortKey) Valid() bool {
	switch k {
	case SortByName, SortByHP, SortByRarity, SortByReleaseDate:
		return true
	}
	return false
}

// Valid reports whether the direction is asc or desc.
func (d SortDirection) Valid() bool {
	return d == SortAscending || d == SortDescending
}

// FilterOptions summarizes the distinct filterable values present in the
// currently loaded card collection. Derived, never stored.
type FilterOptions struct {
	Types    []string `json:"types"`
	Rarities []string `json:"rarities"`
	Sets     []string `json:"sets"`
	MaxHP    int      `json:"maxHp"`
}

// CardStats are aggregate counts over the filtered card list.
type CardStats struct {
	TotalCards int            `json:"totalCards"`
	ByType     map[string]int `json:"byType"`
	ByRarity   map[string]int `json:"byRarity"`
}
