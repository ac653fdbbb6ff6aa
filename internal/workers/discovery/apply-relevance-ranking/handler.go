// internal/workers/discovery/apply-relevance-ranking/handler.go
package applyrelevanceranking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"pro-discovery/internal/common/camunda"
	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/common/metrics"
	"pro-discovery/internal/discovery"
	"pro-discovery/internal/models"
)

const TaskType = "apply-relevance-ranking"

type Handler struct {
	config       *Config
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		errorHandler: apperrors.NewErrorHandler(log),
		logger:       log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	done := metrics.TrackJob(TaskType)
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := h.errorHandler.HandleJobError(ctx, client, job,
			apperrors.NewInvalidRankingInputError(fmt.Sprintf("parse input: %v", err)))
		done(string(stdErr.Code))
		return
	}

	output, err := h.Execute(ctx, &input)
	if err != nil {
		stdErr := h.errorHandler.HandleJobError(ctx, client, job, err)
		done(string(stdErr.Code))
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output, h.logger); err != nil {
		done(string(apperrors.ErrCodeInternal))
		return
	}
	done("")
}

// Execute orders an already-filtered profile list. Repeated ids keep their first
// occurrence, and the result is cut to maxItems (input first, then config).
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	if input.SortBy != "" && !input.SortBy.Valid() {
		return nil, apperrors.NewInvalidRankingInputError(fmt.Sprintf("unknown sort key %q", input.SortBy))
	}
	if input.MaxItems < 0 {
		return nil, apperrors.NewInvalidRankingInputError(fmt.Sprintf("maxItems must be >= 0, got %d", input.MaxItems))
	}

	start := time.Now()

	seen := make(map[string]bool, len(input.Profiles))
	unique := make([]models.ProfessionalProfile, 0, len(input.Profiles))
	for _, p := range input.Profiles {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		unique = append(unique, p)
	}

	ranked := discovery.RankWithScores(unique, input.SortBy, h.config.Weights)

	maxItems := input.MaxItems
	if maxItems == 0 {
		maxItems = h.config.MaxItems
	}
	if maxItems > 0 && len(ranked) > maxItems {
		ranked = ranked[:maxItems]
	}

	h.logger.Info("ranking completed", map[string]interface{}{
		"inputCount":  len(input.Profiles),
		"rankedCount": len(ranked),
		"sortBy":      string(input.SortBy),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return &Output{RankedProfiles: ranked, TotalRanked: len(ranked)}, nil
}
