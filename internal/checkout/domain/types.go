package domain

type QuoteLine struct {
	ProductID    string `json:"productId"`
	Title        string `json:"title"`
	SelectedSize string `json:"selectedSize,omitempty"`
	Quantity     int64  `json:"quantity"`
	UnitPrice    int64  `json:"unitPrice"`
	LineTotal    int64  `json:"lineTotal"`
}

// Customer holds the contact and delivery details entered on the
// checkout form.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type Quote struct {
	Lines []QuoteLine `json:"lines"`
	Total int64       `json:"total"`
}
