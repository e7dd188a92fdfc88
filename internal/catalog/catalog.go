// Package catalog holds the fixed list of books and which of them are on the shelf.
package catalog

import (
	"sort"
	"sync"

	"github.com/sheikh-saqib/rental-ledger/internal/models"
)

type Catalog struct {
	mu    sync.RWMutex
	items map[int]*models.CatalogItem
}

func New(items ...models.CatalogItem) *Catalog {
	c := &Catalog{items: make(map[int]*models.CatalogItem, len(items))}
	for _, it := range items {
		it := it
		c.items[it.ID] = &it
	}
	return c
}

// Default is the library's starting stock.
func Default() *Catalog {
	return New(
		models.CatalogItem{ID: 1, Title: "One Punch Man VOL1", Author: "ONE", InStock: true},
		models.CatalogItem{ID: 2, Title: "Naruto VOL1", Author: "Masashi Kishimoto", InStock: true},
		models.CatalogItem{ID: 3, Title: "Attack on Titan VOL1", Author: "Hajime Isayama", InStock: false},
	)
}

func (c *Catalog) Get(id int) (models.CatalogItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[id]
	if !ok {
		return models.CatalogItem{}, false
	}
	return *it, true
}

// All returns every item ordered by id.
func (c *Catalog) All() []models.CatalogItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.CatalogItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Available returns the items in stock ordered by id.
func (c *Catalog) Available() []models.CatalogItem {
	var out []models.CatalogItem
	for _, it := range c.All() {
		if it.InStock {
			out = append(out, it)
		}
	}
	return out
}

// MarkRented takes the item off the shelf. It reports false when the item is
// unknown or already out.
func (c *Catalog) MarkRented(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[id]
	if !ok || !it.InStock {
		return false
	}
	it.InStock = false
	return true
}

// MarkReturned puts the item back on the shelf.
func (c *Catalog) MarkReturned(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if it, ok := c.items[id]; ok {
		it.InStock = true
	}
}

// Reconcile flags every item with an open rental as out of stock.
func (c *Catalog) Reconcile(active []models.ActiveRental) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range active {
		if it, ok := c.items[r.ID]; ok {
			it.InStock = false
		}
	}
}
