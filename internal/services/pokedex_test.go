package services

import (
	"context"
	"errors"
	"testing"

	"pokecatalog/internal/models"
)

func charizard() models.Card {
	return models.Card{
		ID: "base1-4", Name: "Charizard", HP: "120", Rarity: "Rare",
		Types: []string{"Fire"},
		Set:   &models.CardSet{ID: "base1", Name: "Base Set"},
		MarketPrices: &models.PriceSnapshot{
			Low: 50, Mid: 100, High: 150, Market: 95,
		},
	}
}

func TestPokedexAddAndList(t *testing.T) {
	svc := NewPokedexService(newTestDB(t))
	ctx := context.Background()

	item, err := svc.Add(ctx, "user-1", models.AddPokedexRequest{Card: charizard(), Notes: "first pull"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if item.Quantity != 1 {
		t.Errorf("Default quantity should be 1, got %d", item.Quantity)
	}
	if item.CardSet != "Base Set" || item.CardType != "Fire" {
		t.Errorf("Card attributes not denormalized: %+v", item)
	}
	if item.HP == nil || *item.HP != 120 {
		t.Errorf("Expected HP 120, got %v", item.HP)
	}
	if item.MarketPrice == nil || *item.MarketPrice != 95 {
		t.Errorf("Expected market price 95, got %v", item.MarketPrice)
	}

	items, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Expected 1 item, got %d", len(items))
	}

	// Other users see nothing
	items, _ = svc.List(ctx, "user-2")
	if len(items) != 0 {
		t.Errorf("Another user's pokédex should be empty, got %d items", len(items))
	}
}

func TestPokedexAddMergesQuantity(t *testing.T) {
	svc := NewPokedexService(newTestDB(t))
	ctx := context.Background()

	svc.Add(ctx, "user-1", models.AddPokedexRequest{Card: charizard(), Quantity: 2})
	item, err := svc.Add(ctx, "user-1", models.AddPokedexRequest{Card: charizard(), Quantity: 3})
	if err != nil {
		t.Fatalf("Second Add failed: %v", err)
	}
	if item.Quantity != 5 {
		t.Errorf("Duplicate add should merge quantities to 5, got %d", item.Quantity)
	}

	items, _ := svc.List(ctx, "user-1")
	if len(items) != 1 {
		t.Errorf("Duplicate add should not create a second row, got %d", len(items))
	}
}

func TestPokedexUpdate(t *testing.T) {
	svc := NewPokedexService(newTestDB(t))
	ctx := context.Background()

	svc.Add(ctx, "user-1", models.AddPokedexRequest{Card: charizard()})

	qty := 4
	notes := "traded up"
	item, err := svc.Update(ctx, "user-1", "base1-4", models.UpdatePokedexRequest{Quantity: &qty, Notes: &notes})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if item.Quantity != 4 || item.Notes != "traded up" {
		t.Errorf("Update not applied: %+v", item)
	}

	// Quantity of zero removes the entry
	zero := 0
	item, err = svc.Update(ctx, "user-1", "base1-4", models.UpdatePokedexRequest{Quantity: &zero})
	if err != nil {
		t.Fatalf("Update to zero failed: %v", err)
	}
	if item != nil {
		t.Errorf("Zero quantity should remove the entry, got %+v", item)
	}
	if has, _ := svc.Has(ctx, "user-1", "base1-4"); has {
		t.Error("Entry should be gone after zero-quantity update")
	}

	// Updating a missing card reports ErrNotInPokedex
	_, err = svc.Update(ctx, "user-1", "base1-4", models.UpdatePokedexRequest{Quantity: &qty})
	if !errors.Is(err, ErrNotInPokedex) {
		t.Errorf("Expected ErrNotInPokedex, got %v", err)
	}
}

func TestPokedexRemove(t *testing.T) {
	svc := NewPokedexService(newTestDB(t))
	ctx := context.Background()

	svc.Add(ctx, "user-1", models.AddPokedexRequest{Card: charizard()})
	if err := svc.Remove(ctx, "user-1", "base1-4"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := svc.Remove(ctx, "user-1", "base1-4"); !errors.Is(err, ErrNotInPokedex) {
		t.Errorf("Removing a missing card should give ErrNotInPokedex, got %v", err)
	}
}

func TestPokedexStats(t *testing.T) {
	svc := NewPokedexService(newTestDB(t))
	ctx := context.Background()

	svc.Add(ctx, "user-1", models.AddPokedexRequest{Card: charizard(), Quantity: 2})

	pikachu := models.Card{ID: "base1-58", Name: "Pikachu", HP: "40"}
	svc.Add(ctx, "user-1", models.AddPokedexRequest{Card: pikachu})

	stats, err := svc.Stats(ctx, "user-1")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.UniqueCards != 2 {
		t.Errorf("Expected 2 unique cards, got %d", stats.UniqueCards)
	}
	if stats.TotalCards != 3 {
		t.Errorf("Expected 3 total cards, got %d", stats.TotalCards)
	}
	// Only Charizard has a price: 95 x 2
	if stats.TotalValue != 190 {
		t.Errorf("Expected total value 190, got %.2f", stats.TotalValue)
	}
}
