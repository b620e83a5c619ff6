// internal/workers/application/score-adoption-application/handler.go
package scoreadoptionapplication

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"adoption-workers/internal/common/errors"
	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/common/metrics"
	"adoption-workers/internal/common/validation"
	"adoption-workers/internal/matching/application"
	"adoption-workers/internal/workers/matching/resolve"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "score-adoption-application"

type Handler struct {
	config     *Config
	scorer     *application.Scorer
	resolver   *resolve.Resolver
	schema     *validation.Schema
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, scorer *application.Scorer, resolver *resolve.Resolver, schema *validation.Schema, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		scorer:     scorer,
		resolver:   resolver,
		schema:     schema,
		errHandler: errors.NewErrorHandler(l),
		logger:     l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	if h.schema != nil {
		res, err := h.schema.ValidateJSON(job.Variables)
		if err != nil {
			return nil, errors.NewInputValidationFailedError(err.Error())
		}
		if !res.Valid {
			return nil, errors.NewInputValidationFailedError(strings.Join(res.GetErrorMessages(), "; "))
		}
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		return nil, errors.NewInputValidationFailedError(err.Error())
	}
	return &input, nil
}

// Execute rates the form. Without any age information the animal counts as
// a puppy.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	age, err := h.resolver.AnimalAge(ctx, input.AnimalID, input.AnimalAge)
	if err != nil {
		return nil, err
	}

	score := h.scorer.Score(input.Form, age)
	metrics.ApplicationsScored.WithLabelValues(strconv.FormatBool(score.Eligible)).Inc()

	h.logger.Info("application scored", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"animalId":      input.AnimalID,
		"percentage":    score.Percentage,
		"eligible":      score.Eligible,
	})

	return &Output{
		ApplicationID:    input.ApplicationID,
		Percentage:       score.Percentage,
		Eligible:         score.Eligible,
		Threshold:        application.EligibilityThreshold,
		Details:          score.Details,
		ExcludedCriteria: score.ExcludedCriteria,
	}, nil
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
