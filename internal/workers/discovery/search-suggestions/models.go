// internal/workers/discovery/search-suggestions/models.go
package searchsuggestions

import "pro-discovery/internal/models"

type Input struct {
	Query string                `json:"query"`
	Type  models.SuggestionType `json:"type,omitempty"`
	Limit *int                  `json:"limit,omitempty"`
}

type Output struct {
	Suggestions []models.Suggestion `json:"suggestions"`
	Count       int                 `json:"count"`
}

// document is the input as the request schema sees it.
func (i *Input) document() map[string]interface{} {
	doc := map[string]interface{}{
		"query": i.Query,
		"type":  string(i.Type),
	}
	if i.Limit != nil {
		doc["limit"] = *i.Limit
	}
	return doc
}
