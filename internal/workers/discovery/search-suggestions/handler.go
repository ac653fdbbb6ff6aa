// internal/workers/discovery/search-suggestions/handler.go
package searchsuggestions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"pro-discovery/internal/common/camunda"
	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/common/metrics"
	"pro-discovery/internal/common/validation"
	"pro-discovery/internal/models"
)

const TaskType = "search-suggestions"

type Suggester interface {
	Suggest(ctx context.Context, req models.SuggestRequest) ([]models.Suggestion, error)
}

type Handler struct {
	config       *Config
	suggester    Suggester
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, suggester Suggester, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		suggester:    suggester,
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
			apperrors.NewInvalidSuggestRequestError(fmt.Sprintf("parse input: %v", err)))
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	result, err := validation.Validate(validation.SchemaSuggestRequest, input.document())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !result.Valid {
		return nil, apperrors.NewInvalidSuggestRequestError(strings.Join(result.GetErrorMessages(), "; "))
	}

	req := models.SuggestRequest{Query: input.Query, Type: input.Type, Limit: input.Limit}

	suggestions, err := h.suggester.Suggest(ctx, req)
	if err != nil {
		stdErr := apperrors.Classify(err)
		if stdErr.Code == apperrors.ErrCodeInvalidSearchRequest {
			return nil, apperrors.NewInvalidSuggestRequestError(err.Error())
		}
		return nil, stdErr
	}

	return &Output{Suggestions: suggestions, Count: len(suggestions)}, nil
}
