// internal/models/profile.go
package models

import "time"

// ProfessionalProfile is the searchable unit of the discovery engine.
type ProfessionalProfile struct {
	ID                  string    `json:"id" yaml:"id" bson:"_id"`
	UserID              string    `json:"userId" yaml:"userId" bson:"userId"`
	DisplayName         string    `json:"displayName" yaml:"displayName" bson:"displayName"`
	CompanyName         string    `json:"companyName,omitempty" yaml:"companyName" bson:"companyName"`
	About               string    `json:"about,omitempty" yaml:"about" bson:"about"`
	CategoryIDs         []string  `json:"categoryIds" yaml:"categoryIds" bson:"categoryIds"`
	AreaIDs             []string  `json:"areaIds" yaml:"areaIds" bson:"areaIds"`
	MinPrice            int       `json:"minPrice" yaml:"minPrice" bson:"minPrice"`
	Verified            bool      `json:"verified" yaml:"verified" bson:"verified"`
	RatingAvg           float64   `json:"ratingAvg" yaml:"ratingAvg" bson:"ratingAvg"`
	RatingCount         int       `json:"ratingCount" yaml:"ratingCount" bson:"ratingCount"`
	ResponseTimeAvgMins int       `json:"responseTimeAvgMins" yaml:"responseTimeAvgMins" bson:"responseTimeAvgMins"`
	Active              bool      `json:"active" yaml:"active" bson:"active"`
	CreatedAt           time.Time `json:"createdAt" yaml:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" yaml:"updatedAt" bson:"updatedAt"`
}

// IsRated reports whether the profile has at least one review.
// Unrated profiles keep whatever ratingAvg the store holds, but ranking must ignore it.
func (p ProfessionalProfile) IsRated() bool {
	return p.RatingCount > 0
}

func (p ProfessionalProfile) HasCategory(id string) bool {
	return containsID(p.CategoryIDs, id)
}

func (p ProfessionalProfile) HasArea(id string) bool {
	return containsID(p.AreaIDs, id)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
