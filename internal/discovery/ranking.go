// internal/discovery/ranking.go
package discovery

import (
	"math"
	"sort"

	"pro-discovery/internal/common/config"
	"pro-discovery/internal/models"
)

// Weights tunes the recommended score.
//
//	score = Rating*rating/RatingScale + Responsiveness*(W-min(rt,W))/W
//	      + ReviewVolume*min(count,Cap)/Cap + Verified*VerifiedBonus
//
// Unrated profiles contribute 0 for the rating term.
type Weights struct {
	Rating             float64
	Responsiveness     float64
	ReviewVolume       float64
	Verified           float64
	VerifiedBonus      float64
	RatingScale        float64
	ResponseWindowMins float64
	ReviewVolumeCap    float64
}

func DefaultWeights() Weights {
	return Weights{
		Rating:             0.40,
		Responsiveness:     0.20,
		ReviewVolume:       0.15,
		Verified:           0.25,
		VerifiedBonus:      0.25,
		RatingScale:        5,
		ResponseWindowMins: 60,
		ReviewVolumeCap:    100,
	}
}

// WeightsFromConfig overlays the configured weights on the defaults; zero values keep the default.
func WeightsFromConfig(cfg config.RankingConfig) Weights {
	w := DefaultWeights()
	overlay := []struct {
		dest *float64
		val  float64
	}{
		{&w.Rating, cfg.RatingWeight},
		{&w.Responsiveness, cfg.ResponsivenessWeight},
		{&w.ReviewVolume, cfg.ReviewVolumeWeight},
		{&w.Verified, cfg.VerifiedWeight},
		{&w.VerifiedBonus, cfg.VerifiedBonus},
		{&w.ResponseWindowMins, cfg.ResponseWindowMins},
		{&w.ReviewVolumeCap, cfg.ReviewVolumeCap},
	}
	for _, o := range overlay {
		if o.val > 0 {
			*o.dest = o.val
		}
	}
	return w
}

// withDefaults replaces non-positive fields with the default values.
func (w Weights) withDefaults() Weights {
	d := DefaultWeights()
	pick := func(v, def float64) float64 {
		if v <= 0 {
			return def
		}
		return v
	}
	return Weights{
		Rating:             pick(w.Rating, d.Rating),
		Responsiveness:     pick(w.Responsiveness, d.Responsiveness),
		ReviewVolume:       pick(w.ReviewVolume, d.ReviewVolume),
		Verified:           pick(w.Verified, d.Verified),
		VerifiedBonus:      pick(w.VerifiedBonus, d.VerifiedBonus),
		RatingScale:        pick(w.RatingScale, d.RatingScale),
		ResponseWindowMins: pick(w.ResponseWindowMins, d.ResponseWindowMins),
		ReviewVolumeCap:    pick(w.ReviewVolumeCap, d.ReviewVolumeCap),
	}
}

// RecommendedScore computes the weighted relevance score of p.
func RecommendedScore(p models.ProfessionalProfile, w Weights) float64 {
	w = w.withDefaults()

	rating := 0.0
	if p.IsRated() {
		rating = math.Min(math.Max(p.RatingAvg, 0), w.RatingScale) / w.RatingScale
	}

	rt := math.Max(float64(p.ResponseTimeAvgMins), 0)
	responsiveness := (w.ResponseWindowMins - math.Min(rt, w.ResponseWindowMins)) / w.ResponseWindowMins

	volume := math.Min(math.Max(float64(p.RatingCount), 0), w.ReviewVolumeCap) / w.ReviewVolumeCap

	bonus := 0.0
	if p.Verified {
		bonus = w.VerifiedBonus
	}

	return w.Rating*rating +
		w.Responsiveness*responsiveness +
		w.ReviewVolume*volume +
		w.Verified*bonus
}

// Rank returns a new slice ordered by key. Every ordering ends with id ascending,
// so equal profiles never depend on input order. An empty key means recommended.
func Rank(profiles []models.ProfessionalProfile, key models.SortKey, w Weights) []models.ProfessionalProfile {
	ranked := make([]models.ProfessionalProfile, len(profiles))
	copy(ranked, profiles)

	if key == "" {
		key = models.DefaultSortKey
	}

	var less func(a, b models.ProfessionalProfile) bool
	switch key {
	case models.SortRating:
		less = func(a, b models.ProfessionalProfile) bool {
			if ra, rb := effectiveRating(a), effectiveRating(b); ra != rb {
				return ra > rb
			}
			if a.RatingCount != b.RatingCount {
				return a.RatingCount > b.RatingCount
			}
			return a.ID < b.ID
		}
	case models.SortPriceLowToHigh:
		less = func(a, b models.ProfessionalProfile) bool {
			if a.MinPrice != b.MinPrice {
				return a.MinPrice < b.MinPrice
			}
			return a.ID < b.ID
		}
	case models.SortPriceHighToLow:
		less = func(a, b models.ProfessionalProfile) bool {
			if a.MinPrice != b.MinPrice {
				return a.MinPrice > b.MinPrice
			}
			return a.ID < b.ID
		}
	case models.SortResponseTime:
		less = func(a, b models.ProfessionalProfile) bool {
			if a.ResponseTimeAvgMins != b.ResponseTimeAvgMins {
				return a.ResponseTimeAvgMins < b.ResponseTimeAvgMins
			}
			if ra, rb := effectiveRating(a), effectiveRating(b); ra != rb {
				return ra > rb
			}
			return a.ID < b.ID
		}
	case models.SortNewest:
		less = func(a, b models.ProfessionalProfile) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	default:
		scores := make(map[string]float64, len(ranked))
		for _, p := range ranked {
			scores[p.ID] = RecommendedScore(p, w)
		}
		less = func(a, b models.ProfessionalProfile) bool {
			if sa, sb := scores[a.ID], scores[b.ID]; sa != sb {
				return sa > sb
			}
			if a.RatingCount != b.RatingCount {
				return a.RatingCount > b.RatingCount
			}
			return a.ID < b.ID
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	return ranked
}

// RankWithScores ranks profiles and attaches 1-based positions and recommended scores.
func RankWithScores(profiles []models.ProfessionalProfile, key models.SortKey, w Weights) []models.RankedProfile {
	ranked := Rank(profiles, key, w)
	out := make([]models.RankedProfile, len(ranked))
	for i, p := range ranked {
		out[i] = models.RankedProfile{
			ProfessionalProfile: p,
			Score:               RecommendedScore(p, w),
			Position:            i + 1,
		}
	}
	return out
}

// effectiveRating treats unrated profiles as 0 regardless of the stored average.
func effectiveRating(p models.ProfessionalProfile) float64 {
	if !p.IsRated() {
		return 0
	}
	return p.RatingAvg
}
