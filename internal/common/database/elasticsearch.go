// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pro-discovery/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// ErrIndexMissing means the cluster answers but the profile index does not exist.
var ErrIndexMissing = errors.New("profile index missing")

// ElasticsearchClient wraps the Elasticsearch client and the profile index name.
type ElasticsearchClient struct {
	Client *elasticsearch.Client
	Index  string
}

// clientConfig retries gateway errors a few times; profile searches are idempotent reads.
func clientConfig(cfg config.ElasticsearchConfig) elasticsearch.Config {
	addresses := cfg.Addresses
	if len(addresses) == 0 && cfg.URL != "" {
		addresses = []string{cfg.URL}
	}

	esCfg := elasticsearch.Config{
		Addresses:     addresses,
		MaxRetries:    3,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
	}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}
	return esCfg
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	es, err := elasticsearch.NewClient(clientConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es, Index: cfg.Index}, nil
}

// Ping checks that the cluster answers.
func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// Ready checks the cluster and that the profile index exists.
func (c *ElasticsearchClient) Ready(ctx context.Context) error {
	if err := c.Ping(ctx); err != nil {
		return err
	}

	res, err := c.Client.Indices.Exists([]string{c.Index}, c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", c.Index, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrIndexMissing, c.Index)
	case res.IsError():
		return fmt.Errorf("check index %s: %s", c.Index, res.Status())
	}
	return nil
}
