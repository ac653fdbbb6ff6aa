// internal/models/query_types.go
package models

type QueryType string

const (
	QueryTypeProfessionalProfiles QueryType = "professional_profiles"
	QueryTypeCategories           QueryType = "categories"
	QueryTypeAreas                QueryType = "areas"
)
