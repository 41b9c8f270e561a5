// Package screening runs the Rule of Five over batches of structures. Invalid
// notations are reported per item and never stop the batch.
package screening

import (
	"context"
	"io"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/druglike/internal/chem/depict"
	"github.com/turtacn/druglike/internal/domain/druglikeness"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/druglike/pkg/errors"
)

const cacheName = "outcome"

// OutcomeCache stores outcomes by notation. Get reports a miss with an
// error carrying errors.ErrCodeNotFound.
type OutcomeCache interface {
	Get(ctx context.Context, notation string) (*druglikeness.EvaluationOutcome, error)
	Set(ctx context.Context, outcome *druglikeness.EvaluationOutcome) error
}

// Renderer draws a depiction grid and returns the notations it could not
// parse. Rendering stops when ctx ends.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, notations []string, opts depict.Options) ([]string, error)
}

// Service defines the screening operations.
type Service interface {
	Evaluate(ctx context.Context, smiles string) (*druglikeness.EvaluationOutcome, error)
	EvaluateBatch(ctx context.Context, smiles []string) (*BatchResult, error)
	Depict(ctx context.Context, w io.Writer, smiles []string, opts depict.Options) ([]string, error)
}

// Option configures the service.
type Option func(*serviceImpl)

// WithCache enables outcome caching.
func WithCache(c OutcomeCache) Option {
	return func(s *serviceImpl) { s.cache = c }
}

// WithMetrics records evaluation metrics.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *serviceImpl) { s.metrics = m }
}

// WithRenderer sets the depiction renderer.
func WithRenderer(r Renderer) Option {
	return func(s *serviceImpl) { s.renderer = r }
}

type serviceImpl struct {
	evaluator *druglikeness.Evaluator
	cache     OutcomeCache
	renderer  Renderer
	metrics   *prometheus.AppMetrics
	logger    logging.Logger
	inflight  singleflight.Group
}

// NewService creates a new screening service.
func NewService(evaluator *druglikeness.Evaluator, logger logging.Logger, opts ...Option) Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{
		evaluator: evaluator,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) Evaluate(ctx context.Context, smiles string) (*druglikeness.EvaluationOutcome, error) {
	out, _, err := s.evaluate(ctx, smiles)
	return out, err
}

// evaluate consults the cache, then evaluates. Concurrent calls for the same
// notation share one evaluation.
func (s *serviceImpl) evaluate(ctx context.Context, smiles string) (*druglikeness.EvaluationOutcome, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeTimeout, "evaluation cancelled")
	}
	if s.evaluator == nil {
		return nil, false, errors.Internal("screening service has no evaluator")
	}

	if out := s.cached(ctx, smiles); out != nil {
		prometheus.RecordEvaluation(s.metrics, verdict(out), failedLabels(out), 0)
		return out, true, nil
	}

	v, err, _ := s.inflight.Do(smiles, func() (interface{}, error) {
		timer := time.Now()
		out, err := s.evaluator.Evaluate(smiles)
		elapsed := time.Since(timer)
		if err != nil {
			prometheus.RecordEvaluation(s.metrics, prometheus.VerdictInvalid, nil, elapsed)
			return nil, err
		}
		prometheus.RecordEvaluation(s.metrics, verdict(out), failedLabels(out), elapsed)
		s.store(ctx, out)
		return out, nil
	})
	if err != nil {
		s.logger.Debug("structure rejected", logging.String("smiles", smiles), logging.Err(err))
		return nil, false, err
	}
	return v.(*druglikeness.EvaluationOutcome), false, nil
}

func (s *serviceImpl) cached(ctx context.Context, smiles string) *druglikeness.EvaluationOutcome {
	if s.cache == nil {
		return nil
	}
	out, err := s.cache.Get(ctx, smiles)
	if err != nil {
		if !errors.IsCode(err, errors.ErrCodeNotFound) {
			prometheus.RecordCacheError(s.metrics, cacheName, "get")
			s.logger.Warn("outcome cache read failed", logging.Err(err))
		}
		prometheus.RecordCacheAccess(s.metrics, cacheName, false)
		return nil
	}
	if out == nil {
		prometheus.RecordCacheAccess(s.metrics, cacheName, false)
		return nil
	}
	prometheus.RecordCacheAccess(s.metrics, cacheName, true)
	return out
}

func (s *serviceImpl) store(ctx context.Context, out *druglikeness.EvaluationOutcome) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, out); err != nil {
		prometheus.RecordCacheError(s.metrics, cacheName, "set")
		s.logger.Warn("outcome cache write failed", logging.String("smiles", out.SMILES), logging.Err(err))
	}
}

// EvaluateBatch evaluates every notation in order. When ctx ends the items
// evaluated so far are returned together with the context error.
func (s *serviceImpl) EvaluateBatch(ctx context.Context, smiles []string) (*BatchResult, error) {
	start := time.Now()
	prometheus.RecordBatch(s.metrics, len(smiles))

	res := &BatchResult{Items: make([]Item, 0, len(smiles))}
	for i, sm := range smiles {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("batch interrupted",
				logging.Int("evaluated", len(res.Items)), logging.Int("total", len(smiles)), logging.Err(err))
			return res, errors.Wrap(err, errors.ErrCodeTimeout, "batch evaluation interrupted")
		}
		out, hit, err := s.evaluate(ctx, sm)
		res.Items = append(res.Items, Item{Index: i, SMILES: sm, Outcome: out, Err: err, Cached: hit})
	}

	s.logger.Info("batch evaluated",
		logging.Int("total", len(smiles)),
		logging.Int("passing", res.Passing()),
		logging.Int("invalid", len(res.Invalid())),
		logging.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// Depict renders the grid for smiles. Legends, when set, must match smiles
// one to one. Notations that could not be drawn are returned.
func (s *serviceImpl) Depict(ctx context.Context, w io.Writer, smiles []string, opts depict.Options) ([]string, error) {
	if s.renderer == nil {
		return nil, errors.Internal("screening service has no renderer")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "depiction cancelled")
	}
	failed, err := s.renderer.Render(ctx, w, smiles, opts)
	prometheus.RecordDepiction(s.metrics, err)
	if err != nil {
		if errors.IsClientError(errors.GetCode(err)) {
			s.logger.Warn("depiction rejected", logging.Int("molecules", len(smiles)), logging.Err(err))
		} else {
			s.logger.Error("depiction failed", logging.Int("molecules", len(smiles)), logging.Err(err))
		}
		return failed, err
	}
	if len(failed) > 0 {
		s.logger.Warn("depiction skipped invalid structures", logging.Any("smiles", failed))
	}
	return failed, nil
}

func verdict(out *druglikeness.EvaluationOutcome) string {
	if out.PassesAll {
		return prometheus.VerdictPass
	}
	return prometheus.VerdictFail
}

func failedLabels(out *druglikeness.EvaluationOutcome) []string {
	failed := out.Results.Failed()
	labels := make([]string, len(failed))
	for i, c := range failed {
		labels[i] = string(c)
	}
	return labels
}
