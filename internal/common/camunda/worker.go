// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"

	"pro-discovery/internal/common/config"
	"pro-discovery/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// JobHandler is implemented by every discovery worker.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
}

// Worker is an open job subscription for one task type.
type Worker struct {
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

// StartWorker opens a job subscription for taskType with the worker's configured limits.
func StartWorker(client zbc.Client, taskType string, cfg config.WorkerConfig, handler JobHandler, logger *zap.Logger) *Worker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(cfg.MaxJobsActive).
		Timeout(config.GetDuration(cfg.Timeout)).
		Open()

	logger.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", cfg.MaxJobsActive),
		zap.Int("timeoutMs", cfg.Timeout),
	)

	return &Worker{worker: jobWorker, logger: logger, taskType: taskType}
}

func (w *Worker) TaskType() string {
	return w.taskType
}

// Stop closes the subscription and waits for in-flight jobs.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
	w.worker.AwaitClose()
}

// CompleteJob sends the job's output variables back to the broker.
func CompleteJob(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}, log logger.Logger) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		log.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return fmt.Errorf("encode job variables: %w", err)
	}
	if _, err := cmd.Send(ctx); err != nil {
		log.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return fmt.Errorf("complete job %d: %w", job.Key, err)
	}
	return nil
}
