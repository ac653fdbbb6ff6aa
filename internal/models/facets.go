// internal/models/facets.go
package models

type PriceBand struct {
	Value PriceBucket `json:"value"`
	Label string      `json:"label"`
	Min   int         `json:"min"`
	Max   *int        `json:"max"`
}

type SortOption struct {
	Value       SortKey `json:"value"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
}

type RatingOption struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

type ResponseTimeOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type Facets struct {
	Categories          []Category           `json:"categories"`
	Areas               []Area               `json:"areas"`
	PriceBands          []PriceBand          `json:"priceBands"`
	SortOptions         []SortOption         `json:"sortOptions"`
	RatingOptions       []RatingOption       `json:"ratingOptions"`
	ResponseTimeOptions []ResponseTimeOption `json:"responseTimeOptions"`
}
