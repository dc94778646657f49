package models

import (
	"strconv"
	"time"
)

// Card is a single TCGdex catalog entry. Cards are value objects: the search
// pipeline replaces the whole collection on every search and never mutates a
// card in place, except to attach a market price snapshot.
type Card struct {
	ID           string         `json:"id"`
	LocalID      string         `json:"localId"`
	Name         string         `json:"name"`
	Image        string         `json:"image"`
	Types        []string       `json:"types,omitempty"`
	HP           string         `json:"hp,omitempty"`
	Rarity       string         `json:"rarity,omitempty"`
	Illustrator  string         `json:"illustrator,omitempty"`
	Description  string         `json:"description,omitempty"`
	Set          *CardSet       `json:"set,omitempty"`
	Abilities    []Ability      `json:"abilities,omitempty"`
	Attacks      []Attack       `json:"attacks,omitempty"`
	MarketPrices *PriceSnapshot `json:"marketPrices,omitempty"`
}

// CardSet is the set a card belongs to. Symbol and Logo hold normalized
// asset URLs once a card has passed through the search pipeline.
type CardSet struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Logo        string     `json:"logo,omitempty"`
	Symbol      string     `json:"symbol,omitempty"`
	ReleaseDate string     `json:"releaseDate,omitempty"`
	CardCount   *CardCount `json:"cardCount,omitempty"`
}

type CardCount struct {
	Total    int `json:"total"`
	Official int `json:"official"`
}

type Ability struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Effect string `json:"effect"`
}

type Attack struct {
	Cost   []string `json:"cost,omitempty"`
	Name   string   `json:"name"`
	Effect string   `json:"effect,omitempty"`
	Damage string   `json:"damage,omitempty"`
}

// PriceSnapshot is a point-in-time simulated market quote for a card.
type PriceSnapshot struct {
	Low         float64   `json:"low"`
	Mid         float64   `json:"mid"`
	High        float64   `json:"high"`
	Market      float64   `json:"market"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// HPValue parses the card's hit points. The second return is false when the
// card has no parseable HP.
func (c *Card) HPValue() (int, bool) {
	if c.HP == "" {
		return 0, false
	}
	hp, err := strconv.Atoi(c.HP)
	if err != nil {
		return 0, false
	}
	return hp, true
}

// SetName returns the card's set name, or "" when the card has no set.
func (c *Card) SetName() string {
	if c.Set == nil {
		return ""
	}
	return c.Set.Name
}

// ReleaseDate returns the card's set release date, or "" when unknown.
func (c *Card) ReleaseDate() string {
	if c.Set == nil {
		return ""
	}
	return c.Set.ReleaseDate
}
