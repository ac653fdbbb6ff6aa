// internal/discovery/suggest.go
package discovery

import (
	"fmt"
	"strings"

	"pro-discovery/internal/models"
)

// Suggest proposes professionals, categories and synthetic services whose names contain the query.
// Sources are concatenated in that fixed order, each in its source order, then truncated to the limit.
func Suggest(profiles []models.ProfessionalProfile, categories []models.Category, req models.SuggestRequest) []models.Suggestion {
	needle := strings.ToLower(strings.TrimSpace(req.Query))
	limit := req.EffectiveLimit()
	out := make([]models.Suggestion, 0, limit)

	if req.Type.Includes(models.SuggestionTypeProfessionals) {
		out = append(out, suggestProfessionals(profiles, needle)...)
	}

	var matched []models.Category
	if req.Type.Includes(models.SuggestionTypeCategories) || req.Type.Includes(models.SuggestionTypeServices) {
		for _, c := range categories {
			if containsFold(c.Name, needle) {
				matched = append(matched, c)
			}
		}
	}

	if req.Type.Includes(models.SuggestionTypeCategories) {
		for _, c := range matched {
			out = append(out, models.Suggestion{
				Type:        models.SuggestionKindCategory,
				Title:       c.Name,
				Description: fmt.Sprintf("Categorie: %s", c.Name),
				Category:    c.ID,
			})
		}
	}

	if req.Type.Includes(models.SuggestionTypeServices) {
		for _, c := range matched {
			out = append(out, models.Suggestion{
				Type:        models.SuggestionKindService,
				Title:       fmt.Sprintf("Servicii %s", c.Name),
				Description: fmt.Sprintf("Profesioniști pentru %s", c.Name),
				Category:    c.ID,
			})
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func suggestProfessionals(profiles []models.ProfessionalProfile, needle string) []models.Suggestion {
	out := make([]models.Suggestion, 0, models.MaxProfessionalSuggestions)
	for _, p := range profiles {
		if len(out) == models.MaxProfessionalSuggestions {
			break
		}
		if !containsFold(p.DisplayName, needle) && !containsFold(p.CompanyName, needle) {
			continue
		}
		description := p.CompanyName
		if description == "" {
			description = "Profesionist"
		}
		category := ""
		if len(p.CategoryIDs) > 0 {
			category = p.CategoryIDs[0]
		}
		out = append(out, models.Suggestion{
			Type:        models.SuggestionKindProfessional,
			Title:       p.DisplayName,
			Description: description,
			Category:    category,
		})
	}
	return out
}
