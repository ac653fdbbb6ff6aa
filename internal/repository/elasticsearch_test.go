package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/models"
)

// fakeTransport answers every request with a canned response and keeps the last request body.
type fakeTransport struct {
	status   int
	body     string
	lastPath string
	lastBody map[string]interface{}
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.lastPath = req.URL.Path
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		f.lastBody = nil
		_ = json.Unmarshal(data, &f.lastBody)
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{
		StatusCode: f.status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(f.body)),
		Request:    req,
	}, nil
}

func newFakeElastic(t *testing.T, status int, body string) (*elasticsearch.Client, *fakeTransport) {
	t.Helper()
	transport := &fakeTransport{status: status, body: body}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	return client, transport
}

// ==========================
// Query building
// ==========================

func TestBuildProfileQuery(t *testing.T) {
	tests := []struct {
		name           string
		query          models.ProfileQuery
		size           int
		validateOutput func(t *testing.T, body map[string]interface{})
	}{
		{
			name:  "empty query has no filters",
			query: models.ProfileQuery{},
			size:  0,
			validateOutput: func(t *testing.T, body map[string]interface{}) {
				filters := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
				assert.Empty(t, filters)
				assert.NotContains(t, body, "size")
			},
		},
		{
			name: "terms and ranges",
			query: models.ProfileQuery{
				CategoryID: "electrical",
				Verified:   boolPtr(true),
				MaxPrice:   intPtr(300),
				MinRating:  floatPtr(4.0),
			},
			size: 500,
			validateOutput: func(t *testing.T, body map[string]interface{}) {
				filters := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
				require.Len(t, filters, 4)
				assert.Equal(t, term("categoryIds", "electrical"), filters[0])
				assert.Equal(t, term("verified", true), filters[1])
				assert.Equal(t, rangeClause("minPrice", "lte", 300), filters[2])
				assert.Equal(t, rangeClause("ratingAvg", "gte", 4.0), filters[3])
				assert.Equal(t, 500, body["size"])
			},
		},
		{
			name: "price floor, response ceiling and names-only text",
			query: models.ProfileQuery{
				MinPrice:        intPtr(1000),
				ResponseTimeMax: intPtr(60),
				Query:           "pro",
				NamesOnly:       true,
				SortHint:        models.SortInsertion,
			},
			size: 5,
			validateOutput: func(t *testing.T, body map[string]interface{}) {
				filters := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
				require.Len(t, filters, 3)
				assert.Equal(t, rangeClause("minPrice", "gte", 1000), filters[0])
				assert.Equal(t, rangeClause("responseTimeAvgMins", "lte", 60), filters[1])
				should := filters[2].(map[string]interface{})["bool"].(map[string]interface{})["should"].([]interface{})
				assert.Len(t, should, 2)

				sort := body["sort"].([]interface{})
				assert.Equal(t, map[string]interface{}{"createdAt": map[string]interface{}{"order": "asc"}}, sort[0])
				assert.Equal(t, true, body["track_total_hits"])
			},
		},
		{
			name:  "text becomes escaped case-insensitive wildcards",
			query: models.ProfileQuery{Query: "a*b"},
			size:  10,
			validateOutput: func(t *testing.T, body map[string]interface{}) {
				filters := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
				require.Len(t, filters, 1)
				textBool := filters[0].(map[string]interface{})["bool"].(map[string]interface{})
				should := textBool["should"].([]interface{})
				require.Len(t, should, 3)
				assert.Equal(t, 1, textBool["minimum_should_match"])

				wildcard := should[0].(map[string]interface{})["wildcard"].(map[string]interface{})
				clause := wildcard["displayName.keyword"].(map[string]interface{})
				assert.Equal(t, `*a\*b*`, clause["value"])
				assert.Equal(t, true, clause["case_insensitive"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateOutput(t, BuildProfileQuery(tt.query, tt.size))
		})
	}
}

// ==========================
// Profile repository
// ==========================

func TestElasticProfileRepository_FetchProfiles(t *testing.T) {
	client, transport := newFakeElastic(t, http.StatusOK, `{
		"took": 3,
		"hits": {
			"total": {"value": 2},
			"hits": [
				{"_id": "p1", "_source": {"id": "p1", "displayName": "Ion Popescu", "categoryIds": ["electrical"], "areaIds": ["sector-1"], "minPrice": 150, "verified": true, "ratingAvg": 4.6, "ratingCount": 32, "active": true}},
				{"_id": "p2", "_source": {"displayName": "Ana Ionescu", "minPrice": 90}}
			]
		}
	}`)

	repo := NewElasticProfileRepository(client, "professionals", 100, createTestLogger(t))
	profiles, err := repo.FetchProfiles(context.Background(), models.ProfileQuery{AreaID: "sector-1"})

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "p1", profiles[0].ID)
	assert.Equal(t, []string{"electrical"}, profiles[0].CategoryIDs)
	assert.Equal(t, "p2", profiles[1].ID, "document id fills a missing id field")
	assert.Equal(t, []string{}, profiles[1].AreaIDs)

	assert.Equal(t, "/professionals/_search", transport.lastPath)
	assert.EqualValues(t, 100, transport.lastBody["size"])
}

func TestElasticProfileRepository_CandidateCap(t *testing.T) {
	client, transport := newFakeElastic(t, http.StatusOK, `{
		"took": 4,
		"hits": {
			"total": {"value": 150, "relation": "eq"},
			"hits": [{"_id": "p1", "_source": {"displayName": "Ion"}}]
		}
	}`)

	repo := NewElasticProfileRepository(client, "professionals", 100, createTestLogger(t))

	_, err := repo.FetchProfiles(context.Background(), models.ProfileQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCandidateLimitExceeded)
	assert.EqualValues(t, 100, transport.lastBody["size"])

	profiles, err := repo.FetchProfiles(context.Background(), models.ProfileQuery{Query: "ion", NamesOnly: true, Limit: 5})
	require.NoError(t, err, "a top-n fetch accepts a larger match set")
	assert.Len(t, profiles, 1)
	assert.EqualValues(t, 5, transport.lastBody["size"])
}

func TestElasticProfileRepository_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{
			name:    "missing index",
			status:  http.StatusNotFound,
			body:    `{"error": {"type": "index_not_found_exception"}, "status": 404}`,
			wantErr: ErrIndexNotFound,
		},
		{
			name:    "bad request",
			status:  http.StatusBadRequest,
			body:    `{"error": {"type": "parsing_exception"}, "status": 400}`,
			wantErr: ErrSearchQueryFailed,
		},
		{
			name:    "undecodable body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: ErrSearchQueryFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newFakeElastic(t, tt.status, tt.body)
			repo := NewElasticProfileRepository(client, "professionals", 0, createTestLogger(t))

			_, err := repo.FetchProfiles(context.Background(), models.ProfileQuery{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
