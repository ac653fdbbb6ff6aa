// internal/models/suggestion.go
package models

// SuggestionType restricts which sources a suggestion request draws from.
type SuggestionType string

const (
	SuggestionTypeAll           SuggestionType = ""
	SuggestionTypeProfessionals SuggestionType = "professionals"
	SuggestionTypeCategories    SuggestionType = "categories"
	SuggestionTypeServices      SuggestionType = "services"
)

func (t SuggestionType) Valid() bool {
	switch t {
	case SuggestionTypeAll, SuggestionTypeProfessionals, SuggestionTypeCategories, SuggestionTypeServices:
		return true
	}
	return false
}

// Includes reports whether a request restricted to t should return entries of the given source.
func (t SuggestionType) Includes(source SuggestionType) bool {
	return t == SuggestionTypeAll || t == source
}

// SuggestionKind tags each suggestion with its origin.
type SuggestionKind string

const (
	SuggestionKindProfessional SuggestionKind = "professional"
	SuggestionKindCategory     SuggestionKind = "category"
	SuggestionKindService      SuggestionKind = "service"
)

const (
	DefaultSuggestionLimit     = 10
	MaxSuggestionLimit         = 50
	MaxProfessionalSuggestions = 5
)

type SuggestRequest struct {
	Query string         `json:"query"`
	Type  SuggestionType `json:"type,omitempty"`
	Limit *int           `json:"limit,omitempty"`
}

func (r SuggestRequest) EffectiveLimit() int {
	if r.Limit == nil {
		return DefaultSuggestionLimit
	}
	return *r.Limit
}

type Suggestion struct {
	Type        SuggestionKind `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category,omitempty"`
}
