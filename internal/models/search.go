// internal/models/search.go
package models

type SortKey string

const (
	SortRecommended    SortKey = "recommended"
	SortRating         SortKey = "rating"
	SortPriceLowToHigh SortKey = "price_low_to_high"
	SortPriceHighToLow SortKey = "price_high_to_low"
	SortResponseTime   SortKey = "response_time"
	SortNewest         SortKey = "newest"
)

const (
	DefaultSortKey     = SortRecommended
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// SortKeys lists every supported sort key in display order.
var SortKeys = []SortKey{
	SortRecommended,
	SortRating,
	SortPriceLowToHigh,
	SortPriceHighToLow,
	SortResponseTime,
	SortNewest,
}

func (k SortKey) Valid() bool {
	for _, v := range SortKeys {
		if v == k {
			return true
		}
	}
	return false
}

type PriceBucket string

const (
	PriceBucket0To100    PriceBucket = "0-100"
	PriceBucket100To300  PriceBucket = "100-300"
	PriceBucket300To500  PriceBucket = "300-500"
	PriceBucket500To1000 PriceBucket = "500-1000"
	PriceBucket1000AndUp PriceBucket = "1000+"
)

// SearchFilterRequest is the caller-constructed discovery query. Nil pointers mean "unset".
type SearchFilterRequest struct {
	Query           string      `json:"query,omitempty"`
	CategoryID      string      `json:"category,omitempty"`
	AreaID          string      `json:"area,omitempty"`
	MinPrice        *int        `json:"minPrice,omitempty"`
	MaxPrice        *int        `json:"maxPrice,omitempty"`
	PriceRange      PriceBucket `json:"priceRange,omitempty"`
	MinRating       *float64    `json:"minRating,omitempty"`
	Verified        *bool       `json:"verified,omitempty"`
	AvailableNow    *bool       `json:"availableNow,omitempty"`
	ResponseTimeMax *int        `json:"responseTimeMax,omitempty"`
	SortBy          SortKey     `json:"sortBy,omitempty"`
	Limit           *int        `json:"limit,omitempty"`
	Offset          *int        `json:"offset,omitempty"`
}

// EffectiveSort returns the requested sort key or the default one.
func (r SearchFilterRequest) EffectiveSort() SortKey {
	if r.SortBy == "" {
		return DefaultSortKey
	}
	return r.SortBy
}

func (r SearchFilterRequest) EffectiveLimit() int {
	if r.Limit == nil {
		return DefaultSearchLimit
	}
	return *r.Limit
}

func (r SearchFilterRequest) EffectiveOffset() int {
	if r.Offset == nil {
		return 0
	}
	return *r.Offset
}

// SortInsertion orders candidates oldest first. Stores use it for suggestion lookups;
// it is not a client sort key.
const SortInsertion SortKey = "insertion"

// ProfileQuery carries the simple predicates a profile store may push down.
type ProfileQuery struct {
	CategoryID      string   `json:"category,omitempty"`
	AreaID          string   `json:"area,omitempty"`
	Verified        *bool    `json:"verified,omitempty"`
	AvailableNow    *bool    `json:"availableNow,omitempty"`
	MinPrice        *int     `json:"minPrice,omitempty"`
	MaxPrice        *int     `json:"maxPrice,omitempty"`
	MinRating       *float64 `json:"minRating,omitempty"`
	ResponseTimeMax *int     `json:"responseTimeMax,omitempty"`
	Query           string   `json:"query,omitempty"`
	// NamesOnly narrows the text predicate to displayName and companyName.
	NamesOnly bool    `json:"namesOnly,omitempty"`
	SortHint  SortKey `json:"sortHint,omitempty"`
	// Limit asks for the first Limit matches in SortHint order. Zero means every match,
	// and a store fails rather than return part of an over-cap match set.
	Limit int `json:"limit,omitempty"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

type SearchResult struct {
	Profiles       []ProfessionalProfile `json:"profiles"`
	Pagination     Pagination            `json:"pagination"`
	AppliedFilters []string              `json:"appliedFilters"`
}

// RankedProfile pairs a profile with its position and recommended score.
type RankedProfile struct {
	ProfessionalProfile
	Score    float64 `json:"score"`
	Position int     `json:"position"`
}
