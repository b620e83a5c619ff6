// internal/workers/matching/calculate-compatibility/handler.go
package calculatecompatibility

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"adoption-workers/internal/common/errors"
	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/common/metrics"
	"adoption-workers/internal/common/validation"
	"adoption-workers/internal/matching"
	"adoption-workers/internal/matching/compatibility"
	"adoption-workers/internal/workers/matching/resolve"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "calculate-compatibility"

type Handler struct {
	config     *Config
	scorer     *compatibility.Scorer
	resolver   *resolve.Resolver
	schema     *validation.Schema
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, scorer *compatibility.Scorer, resolver *resolve.Resolver, schema *validation.Schema, log logger.Logger) *Handler {
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

// Execute scores every candidate and returns them best first, truncated to
// the requested limit.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Limit < 0 {
		return nil, errors.NewInputValidationFailedError("limit must not be negative")
	}

	prefs, err := h.resolver.Preferences(ctx, input.Subject)
	if err != nil {
		return nil, err
	}
	animals, err := h.resolver.Animals(ctx, input.Candidates)
	if err != nil {
		return nil, err
	}

	results, err := h.scorer.Score(ctx, prefs, animals)
	if err != nil {
		return nil, resolve.MapScoringError(err)
	}

	metrics.CandidatesScored.WithLabelValues(matching.StrategyCompatibility).Add(float64(len(results)))

	output := &Output{
		RunID:      uuid.NewString(),
		Results:    results,
		TotalCount: len(results),
	}
	if len(results) > 0 {
		output.BestScore = results[0].MatchScore
		metrics.TopScore.WithLabelValues(matching.StrategyCompatibility).Observe(output.BestScore)
	}

	limit := input.Limit
	if limit == 0 {
		limit = h.config.DefaultLimit
	}
	if limit > 0 && limit < len(results) {
		output.Results = results[:limit]
	}

	h.logger.Info("compatibility calculated", map[string]interface{}{
		"runId":      output.RunID,
		"userId":     prefs.UserID,
		"candidates": output.TotalCount,
		"bestScore":  output.BestScore,
	})
	return output, nil
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
