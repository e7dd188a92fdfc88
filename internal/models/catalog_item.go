package models

// CatalogItem is a book the library can rent out
type CatalogItem struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	InStock bool   `json:"in_stock"`
}
