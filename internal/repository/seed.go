// internal/repository/seed.go
package repository

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/models"
)

// Seed is the on-disk fixture format shared by the seed source and the taxonomy-seed tool.
type Seed struct {
	Categories []models.Category            `yaml:"categories"`
	Areas      []models.Area                `yaml:"areas"`
	Profiles   []models.ProfessionalProfile `yaml:"profiles"`
}

// LoadSeedFile reads and checks a YAML seed file.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if err := seed.check(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *Seed) check() error {
	seen := make(map[string]bool)
	for _, c := range s.Categories {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("seed category needs id and name")
		}
		if seen["c:"+c.ID] {
			return fmt.Errorf("duplicate seed category %q", c.ID)
		}
		seen["c:"+c.ID] = true
	}
	for _, a := range s.Areas {
		if a.ID == "" || a.Name == "" {
			return fmt.Errorf("seed area needs id and name")
		}
		if seen["a:"+a.ID] {
			return fmt.Errorf("duplicate seed area %q", a.ID)
		}
		seen["a:"+a.ID] = true
	}
	for i, p := range s.Profiles {
		if p.ID == "" || p.DisplayName == "" {
			return fmt.Errorf("seed profile %d needs id and displayName", i)
		}
		if seen["p:"+p.ID] {
			return fmt.Errorf("duplicate seed profile %q", p.ID)
		}
		seen["p:"+p.ID] = true
		if p.CategoryIDs == nil {
			s.Profiles[i].CategoryIDs = []string{}
		}
		if p.AreaIDs == nil {
			s.Profiles[i].AreaIDs = []string{}
		}
	}
	return nil
}

// candidateWindow is the row count a store requests for q. A full-match fetch asks for
// one row past the cap so an overflow can be told apart from an exact fit.
func candidateWindow(q models.ProfileQuery, maxCandidates int) int {
	switch {
	case q.Limit > 0 && maxCandidates > 0 && q.Limit > maxCandidates:
		return maxCandidates
	case q.Limit > 0:
		return q.Limit
	case maxCandidates > 0:
		return maxCandidates + 1
	default:
		return 0
	}
}

// checkCandidateCap fails a full-match fetch that found more profiles than the cap.
// Top-N fetches (q.Limit > 0) never fail.
func checkCandidateCap(log logger.Logger, q models.ProfileQuery, matched, maxCandidates int) error {
	if q.Limit > 0 || maxCandidates <= 0 || matched <= maxCandidates {
		return nil
	}
	log.Warn("candidate cap exceeded", map[string]interface{}{
		"maxCandidates": maxCandidates,
		"matched":       matched,
	})
	return fmt.Errorf("%w: more than %d profiles match", apperrors.ErrCandidateLimitExceeded, maxCandidates)
}
