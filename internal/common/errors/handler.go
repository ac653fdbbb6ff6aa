// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler resolves a failed job either by failing it with retries or by throwing a BPMN error.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError classifies err and reports it to the broker. It returns the classified error.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) *StandardError {
	stdErr := Classify(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"details":          stdErr.Details,
		"retryable":        stdErr.Retryable,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"processInstance":  job.ProcessInstanceKey,
		"remainingRetries": job.Retries,
	})

	if bpmnErr.Retries > 0 && job.Retries > 0 {
		h.failJob(ctx, client, job, bpmnErr)
		return stdErr
	}
	h.throwError(ctx, client, job, bpmnErr)
	return stdErr
}

func (h *ErrorHandler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	// never hand back more retries than the broker still holds for the job
	retries := int32(bpmnErr.Retries)
	if job.Retries-1 < retries {
		retries = job.Retries - 1
	}

	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(bpmnErr.Message)

	if vars, ok := errorVariablesJSON(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			h.send(ctx, "fail job", func(ctx context.Context) error {
				_, err := withVars.Send(ctx)
				return err
			})
			return
		}
	}
	h.send(ctx, "fail job", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
}

func (h *ErrorHandler) throwError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	if vars, ok := errorVariablesJSON(bpmnErr); ok {
		if withVars, err := cmd.VariablesFromString(vars); err == nil {
			h.send(ctx, "throw error", func(ctx context.Context) error {
				_, err := withVars.Send(ctx)
				return err
			})
			return
		}
	}
	h.send(ctx, "throw error", func(ctx context.Context) error {
		_, err := cmd.Send(ctx)
		return err
	})
}

func (h *ErrorHandler) send(ctx context.Context, op string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		h.logger.Error("failed to send command", map[string]interface{}{
			"command": op,
			"error":   err.Error(),
		})
	}
}

func errorVariablesJSON(bpmnErr *BPMNError) (string, bool) {
	data, err := json.Marshal(bpmnErr.ToErrorVariables())
	if err != nil {
		return "", false
	}
	return string(data), true
}
