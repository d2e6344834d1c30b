package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flex_report/internal/config"
	"flex_report/internal/engine"
	"flex_report/internal/logger"
	"flex_report/internal/metrics"
	"flex_report/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrBatchTooLarge is returned when a batch exceeds batch.max_items.
var ErrBatchTooLarge = errors.New("batch too large")

// BatchItem is the result for one request of a batch, at the same index as
// the request. Exactly one of Estimate and Err is set.
type BatchItem struct {
	Index    int
	Estimate *models.RULEstimate
	Err      error
}

type EstimationService struct {
	estimator *engine.Estimator
	batch     config.BatchConfig
	log       *logger.Logger
}

func NewEstimationService(estimator *engine.Estimator, batch config.BatchConfig, log *logger.Logger) *EstimationService {
	return &EstimationService{estimator: estimator, batch: batch, log: log}
}

// Estimate runs one estimate and stamps it with a fresh analysis id.
func (s *EstimationService) Estimate(ctx context.Context, req engine.Request) (models.RULEstimate, error) {
	if err := ctx.Err(); err != nil {
		return models.RULEstimate{}, err
	}

	start := time.Now()
	est, err := s.estimator.Estimate(req)
	if err != nil {
		metrics.ObserveEstimate(metrics.OutcomeRejected, time.Since(start))
		s.log.Debugw("estimate_rejected", "fluid", req.Fluid, "elapsed_hours", req.ElapsedHours, "error", err)
		return models.RULEstimate{}, err
	}
	metrics.ObserveEstimate(outcome(est), time.Since(start))

	est.AnalysisID = uuid.NewString()
	s.log.Debugw("estimate_done",
		"analysis_id", est.AnalysisID,
		"fluid", est.Fluid,
		"severity", est.SeverityRating,
		"remaining_hours", est.RemainingHours,
		"undetermined", est.Undetermined,
	)
	return est, nil
}

// EstimateBatch runs reqs concurrently on at most batch.workers goroutines.
// Per-request failures are reported on the item; the returned error is set
// only when the batch is rejected as a whole or ctx is cancelled.
func (s *EstimationService) EstimateBatch(ctx context.Context, reqs []engine.Request) ([]BatchItem, error) {
	if s.batch.MaxItems > 0 && len(reqs) > s.batch.MaxItems {
		return nil, fmt.Errorf("%w: %d items, limit %d", ErrBatchTooLarge, len(reqs), s.batch.MaxItems)
	}
	metrics.ObserveBatch(len(reqs))

	workers := s.batch.Workers
	if workers < 1 {
		workers = 1
	}

	items := make([]BatchItem, len(reqs))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, req := range reqs {
		i, req := i, req
		items[i].Index = i
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			est, err := s.Estimate(ctx, req)
			if err != nil {
				items[i].Err = err
				s.log.Infow("batch_item_failed", "index", i, "fluid", req.Fluid, "error", err)
				return nil
			}
			items[i].Estimate = &est
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func outcome(e models.RULEstimate) string {
	switch {
	case e.Undetermined:
		return metrics.OutcomeUndetermined
	case e.RemainingHours == 0:
		return metrics.OutcomeExpired
	default:
		return metrics.OutcomeDetermined
	}
}
