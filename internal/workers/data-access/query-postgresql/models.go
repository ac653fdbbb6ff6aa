// internal/workers/data-access/query-postgresql/models.go
package querypostgresql

import "pro-discovery/internal/models"

type Input struct {
	QueryType string                 `json:"queryType"`
	Filters   map[string]interface{} `json:"filters,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var (
	QueryTypeProfessionalProfiles = models.QueryTypeProfessionalProfiles
	QueryTypeCategories           = models.QueryTypeCategories
	QueryTypeAreas                = models.QueryTypeAreas
)
