// internal/workers/data-access/query-postgresql/handler.go
package querypostgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"pro-discovery/internal/common/camunda"
	apperrors "pro-discovery/internal/common/errors"
	"pro-discovery/internal/common/logger"
	"pro-discovery/internal/common/metrics"
	"pro-discovery/internal/models"
	"pro-discovery/internal/workers/data-access/query-postgresql/queries"
)

const (
	TaskType = "query-postgresql"
)

type Handler struct {
	config       *Config
	db           *sql.DB
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		db:           db,
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
			apperrors.NewInvalidFilterFormatError(fmt.Sprintf("parse input: %v", err)))
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
	if input == nil {
		return nil, apperrors.NewInvalidQueryTypeError("")
	}

	queryType := models.QueryType(input.QueryType)
	if _, exists := queries.Registry[queryType]; !exists {
		return nil, apperrors.NewInvalidQueryTypeError(input.QueryType)
	}

	env := queries.Env{DB: h.db, MaxCandidates: h.config.MaxCandidates, Logger: h.logger}
	data, rowCount, execTime, err := queries.Execute(ctx, env, queryType, input.Filters)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidRequest):
			return nil, apperrors.NewInvalidFilterFormatError(err.Error())
		case errors.Is(err, apperrors.ErrCandidateLimitExceeded):
			return nil, apperrors.NewCandidateLimitExceededError(err.Error())
		case errors.Is(err, context.DeadlineExceeded), ctx.Err() == context.DeadlineExceeded:
			return nil, apperrors.NewQueryTimeoutError(input.QueryType)
		default:
			return nil, apperrors.NewQueryExecutionFailedError(input.QueryType, err)
		}
	}

	h.logger.Debug("query executed", map[string]interface{}{
		"queryType":  input.QueryType,
		"rowCount":   rowCount,
		"durationMs": execTime,
	})

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: execTime,
	}, nil
}
