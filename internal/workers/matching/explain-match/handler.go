// internal/workers/matching/explain-match/handler.go
package explainmatch

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"adoption-workers/internal/common/errors"
	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/common/metrics"
	"adoption-workers/internal/common/validation"
	"adoption-workers/internal/matching/compatibility"
	"adoption-workers/internal/matching/knn"
	"adoption-workers/internal/models"
	"adoption-workers/internal/workers/matching/resolve"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "explain-match"

type Handler struct {
	config     *Config
	ranker     *knn.Ranker
	resolver   *resolve.Resolver
	schema     *validation.Schema
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, ranker *knn.Ranker, resolver *resolve.Resolver, schema *validation.Schema, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		ranker:     ranker,
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

// Execute explains one adopter/animal pair under both scoring models.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Animal == nil && input.AnimalID == "" {
		return nil, errors.NewInputValidationFailedError("either animalId or animal is required")
	}

	prefs, err := h.resolver.Preferences(ctx, input.Subject)
	if err != nil {
		return nil, err
	}

	var animal models.AnimalProfile
	if input.Animal != nil {
		animal = *input.Animal
	} else {
		animals, err := h.resolver.Animals(ctx, resolve.Candidates{AnimalIDs: []string{input.AnimalID}})
		if err != nil {
			return nil, err
		}
		animal = animals[0]
	}

	exp, err := h.ranker.Explain(prefs, animal)
	if err != nil {
		return nil, resolve.MapScoringError(err)
	}

	output := &Output{
		RunID:         uuid.NewString(),
		Explanation:   exp,
		Compatibility: compatibility.Evaluate(prefs, animal),
	}

	h.logger.Debug("match explained", map[string]interface{}{
		"runId":    output.RunID,
		"userId":   prefs.UserID,
		"animalId": animal.ID,
		"distance": exp.Distance,
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
