// internal/discovery/facets.go
package discovery

import "pro-discovery/internal/models"

func intPtr(v int) *int { return &v }

var priceBands = []models.PriceBand{
	{Value: models.PriceBucket0To100, Label: "0 - 100 RON", Min: 0, Max: intPtr(100)},
	{Value: models.PriceBucket100To300, Label: "100 - 300 RON", Min: 100, Max: intPtr(300)},
	{Value: models.PriceBucket300To500, Label: "300 - 500 RON", Min: 300, Max: intPtr(500)},
	{Value: models.PriceBucket500To1000, Label: "500 - 1000 RON", Min: 500, Max: intPtr(1000)},
	{Value: models.PriceBucket1000AndUp, Label: "Peste 1000 RON", Min: 1000},
}

var sortOptions = []models.SortOption{
	{Value: models.SortRecommended, Label: "Recomandați", Description: "Cea mai bună potrivire după rating, timp de răspuns, recenzii și verificare"},
	{Value: models.SortRating, Label: "Rating", Description: "Cel mai bine evaluați primii"},
	{Value: models.SortPriceLowToHigh, Label: "Preț crescător", Description: "Cel mai mic preț de pornire primul"},
	{Value: models.SortPriceHighToLow, Label: "Preț descrescător", Description: "Cel mai mare preț de pornire primul"},
	{Value: models.SortResponseTime, Label: "Timp de răspuns", Description: "Cei mai rapizi în a răspunde primii"},
	{Value: models.SortNewest, Label: "Cei mai noi", Description: "Profesioniștii înscriși recent primii"},
}

var ratingOptions = []models.RatingOption{
	{Value: 4.5, Label: "4.5+ stele"},
	{Value: 4, Label: "4+ stele"},
	{Value: 3.5, Label: "3.5+ stele"},
	{Value: 3, Label: "3+ stele"},
	{Value: 2.5, Label: "2.5+ stele"},
}

var responseTimeOptions = []models.ResponseTimeOption{
	{Value: 15, Label: "Sub 15 minute"},
	{Value: 30, Label: "Sub 30 minute"},
	{Value: 60, Label: "Sub o oră"},
	{Value: 120, Label: "Sub 2 ore"},
	{Value: 1440, Label: "Sub 24 de ore"},
}

// BuildFacets assembles the filter options for a taxonomy snapshot.
// The result shares no memory with package state or the input.
func BuildFacets(taxonomy models.Taxonomy) *models.Facets {
	categories := make([]models.Category, len(taxonomy.Categories))
	copy(categories, taxonomy.Categories)
	areas := make([]models.Area, len(taxonomy.Areas))
	copy(areas, taxonomy.Areas)

	bands := make([]models.PriceBand, len(priceBands))
	for i, b := range priceBands {
		bands[i] = b
		if b.Max != nil {
			bands[i].Max = intPtr(*b.Max)
		}
	}

	return &models.Facets{
		Categories:          categories,
		Areas:               areas,
		PriceBands:          bands,
		SortOptions:         append([]models.SortOption(nil), sortOptions...),
		RatingOptions:       append([]models.RatingOption(nil), ratingOptions...),
		ResponseTimeOptions: append([]models.ResponseTimeOption(nil), responseTimeOptions...),
	}
}
