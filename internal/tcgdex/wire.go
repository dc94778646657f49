package tcgdex

import (
	"encoding/json"
	"strconv"

	"pokecatalog/internal/imageurl"
	"pokecatalog/internal/models"
)

// flexString decodes a JSON value that may arrive as either a string or a
// number. TCGdex is inconsistent about localId and hp across sets.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type wireSummary struct {
	ID      string     `json:"id"`
	LocalID flexString `json:"localId"`
	Name    string     `json:"name"`
	Image   string     `json:"image"`
}

type wireCard struct {
	ID          string           `json:"id"`
	LocalID     flexString       `json:"localId"`
	Name        string           `json:"name"`
	Image       string           `json:"image"`
	Types       []string         `json:"types"`
	HP          flexString       `json:"hp"`
	Rarity      string           `json:"rarity"`
	Illustrator string           `json:"illustrator"`
	Description string           `json:"description"`
	Set         *wireSet         `json:"set"`
	Abilities   []models.Ability `json:"abilities"`
	Attacks     []models.Attack  `json:"attacks"`
}

type wireSet struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Logo        string         `json:"logo"`
	Symbol      string         `json:"symbol"`
	ReleaseDate string         `json:"releaseDate"`
	CardCount   *wireCardCount `json:"cardCount"`
}

type wireCardCount struct {
	Total    flexString `json:"total"`
	Official flexString `json:"official"`
}

// toCard converts a wire record into the domain model, normalizing the card
// image and set symbol/logo references on the way through.
func (w *wireCard) toCard() *models.Card {
	card := &models.Card{
		ID:          w.ID,
		LocalID:     string(w.LocalID),
		Name:        w.Name,
		Image:       imageurl.Card(w.Image, imageurl.QualityHigh, imageurl.ExtWebP),
		Types:       w.Types,
		HP:          string(w.HP),
		Rarity:      w.Rarity,
		Illustrator: w.Illustrator,
		Description: w.Description,
		Abilities:   w.Abilities,
		Attacks:     w.Attacks,
	}

	if w.Set != nil {
		set := &models.CardSet{
			ID:          w.Set.ID,
			Name:        w.Set.Name,
			Logo:        imageurl.Symbol(w.Set.Logo, imageurl.ExtWebP),
			Symbol:      imageurl.Symbol(w.Set.Symbol, imageurl.ExtWebP),
			ReleaseDate: w.Set.ReleaseDate,
		}
		if w.Set.CardCount != nil {
			set.CardCount = &models.CardCount{
				Total:    atoiOrZero(string(w.Set.CardCount.Total)),
				Official: atoiOrZero(string(w.Set.CardCount.Official)),
			}
		}
		card.Set = set
	}

	return card
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
