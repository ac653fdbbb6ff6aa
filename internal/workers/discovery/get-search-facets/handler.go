// internal/workers/discovery/get-search-facets/handler.go
package getsearchfacets

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"pro-discovery/internal/common/camunda"
	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/common/metrics"
	"pro-discovery/internal/models"
)

const TaskType = "get-search-facets"

type Faceter interface {
	Facets(ctx context.Context) (*models.Facets, error)
}

type Handler struct {
	config       *Config
	faceter      Faceter
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, faceter Faceter, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		faceter:      faceter,
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

	output, err := h.Execute(ctx, &Input{})
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

func (h *Handler) Execute(ctx context.Context, _ *Input) (*Output, error) {
	facets, err := h.faceter.Facets(ctx)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	h.logger.Debug("facets built", map[string]interface{}{
		"categories": len(facets.Categories),
		"areas":      len(facets.Areas),
	})
	return &Output{Facets: *facets}, nil
}
