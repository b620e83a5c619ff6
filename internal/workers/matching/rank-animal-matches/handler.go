// internal/workers/matching/rank-animal-matches/handler.go
package rankanimalmatches

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"adoption-workers/internal/common/errors"
	"adoption-workers/internal/common/logger"
	"adoption-workers/internal/common/metrics"
	"adoption-workers/internal/common/validation"
	"adoption-workers/internal/matching"
	"adoption-workers/internal/matching/knn"
	"adoption-workers/internal/models"
	"adoption-workers/internal/workers/matching/resolve"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const TaskType = "rank-animal-matches"

const cacheKeyPrefix = "match:knn:"

type Handler struct {
	config     *Config
	ranker     *knn.Ranker
	resolver   *resolve.Resolver
	redis      *redis.Client
	schema     *validation.Schema
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler wires the worker. rdb and schema may be nil.
func NewHandler(config *Config, ranker *knn.Ranker, resolver *resolve.Resolver, rdb *redis.Client, schema *validation.Schema, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		ranker:     ranker,
		resolver:   resolver,
		redis:      rdb,
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
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			h.completeJob(ctx, client, job, output)
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
			return
		}
	}

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.Normalize(err).Code)).Inc()
	h.errHandler.HandleJobError(ctx, client, job, err)
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

// Execute ranks the resolved candidates for the resolved adopter.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input.K < 0 {
		return nil, errors.NewInputValidationFailedError("k must not be negative")
	}

	prefs, err := h.resolver.Preferences(ctx, input.Subject)
	if err != nil {
		return nil, err
	}
	animals, err := h.resolver.Animals(ctx, input.Candidates)
	if err != nil {
		return nil, err
	}

	k := input.K
	if k == 0 {
		k = h.config.K
	}

	key := h.cacheKey(prefs, animals, k)
	if cached := h.getCached(ctx, key); cached != nil {
		cached.RunID = uuid.NewString()
		cached.RequestID = input.RequestID
		cached.Cached = true
		return cached, nil
	}

	res, err := h.ranker.Rank(ctx, prefs, animals, k)
	if err != nil {
		return nil, resolve.MapScoringError(err)
	}

	metrics.CandidatesScored.WithLabelValues(matching.StrategyKNN).Add(float64(res.TotalCount))
	if len(res.TopMatches) > 0 {
		metrics.TopScore.WithLabelValues(matching.StrategyKNN).Observe(res.TopMatches[0].Score)
	}

	output := &Output{
		RunID:         uuid.NewString(),
		RequestID:     input.RequestID,
		TopMatches:    res.TopMatches,
		AllMatches:    res.AllMatches,
		K:             res.K,
		TotalCount:    res.TotalCount,
		Metric:        res.Metric,
		ScalerVersion: res.ScalerVersion,
	}
	h.setCached(ctx, key, output)

	h.logger.Info("animals ranked", map[string]interface{}{
		"runId":      output.RunID,
		"userId":     prefs.UserID,
		"candidates": res.TotalCount,
		"k":          res.K,
	})
	return output, nil
}

// cacheKey hashes everything the ranking depends on.
func (h *Handler) cacheKey(prefs models.AdopterPreferences, animals []models.AnimalProfile, k int) string {
	data, err := json.Marshal(struct {
		Prefs   models.AdopterPreferences `json:"p"`
		Animals []models.AnimalProfile    `json:"a"`
		K       int                       `json:"k"`
		Metric  string                    `json:"m"`
		Version string                    `json:"v"`
	}{prefs, animals, k, h.ranker.Metric(), h.ranker.ScalerVersion()})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (h *Handler) getCached(ctx context.Context, key string) *Output {
	if h.redis == nil || key == "" {
		return nil
	}
	val, err := h.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !stderrors.Is(err, redis.Nil) {
			h.logger.Warn("result cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}
	var out Output
	if err := json.Unmarshal(val, &out); err != nil {
		return nil
	}
	return &out
}

func (h *Handler) setCached(ctx context.Context, key string, output *Output) {
	if h.redis == nil || key == "" || h.config.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(output)
	if err != nil {
		return
	}
	if err := h.redis.Set(ctx, key, data, h.config.CacheTTL).Err(); err != nil {
		h.logger.Warn("result cache write failed", map[string]interface{}{"error": err.Error()})
	}
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
