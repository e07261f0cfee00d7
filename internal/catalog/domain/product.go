package domain

import "time"

// Product is a catalog entry. Prices are integer rupees; there is no
// multi-currency support.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       int64     `json:"price"`
	Image       string    `json:"image,omitempty"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Artist      string    `json:"artist,omitempty"`
	Rating      int       `json:"rating"`
	Colors      []string  `json:"colors,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Filter narrows a catalog listing. Zero values match everything.
type Filter struct {
	Category string
	Artist   string
	Query    string
	Limit    int
}
