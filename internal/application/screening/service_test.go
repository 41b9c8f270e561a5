package screening

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/druglike/internal/chem/depict"
	"github.com/turtacn/druglike/internal/chem/toolkit"
	"github.com/turtacn/druglike/internal/domain/druglikeness"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/druglike/internal/testutil"
	"github.com/turtacn/druglike/pkg/errors"
)

// MockOutcomeCache is a mock implementation of OutcomeCache.
type MockOutcomeCache struct {
	mock.Mock
}

func (m *MockOutcomeCache) Get(ctx context.Context, notation string) (*druglikeness.EvaluationOutcome, error) {
	args := m.Called(ctx, notation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*druglikeness.EvaluationOutcome), args.Error(1)
}

func (m *MockOutcomeCache) Set(ctx context.Context, outcome *druglikeness.EvaluationOutcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

// MockRenderer is a mock implementation of Renderer.
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, w io.Writer, notations []string, opts depict.Options) ([]string, error) {
	args := m.Called(ctx, w, notations, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

var errMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

func TestDefaultBatch(t *testing.T) {
	smiles, legends := DefaultBatch()
	require.Len(t, smiles, 2)
	assert.Equal(t, []string{"Molecule 1", "Molecule 2"}, legends)
	assert.Equal(t, "O=C(OCc2nc(c(Sc1cc(Cl)cc(Cl)c1)n2Cc3ccncc3)C(C)C)N", smiles[0])
}

func TestLegends(t *testing.T) {
	assert.Equal(t, []string{"Mol 1", "Mol 2", "Mol 3"}, Legends("Mol", 3))
	assert.Empty(t, Legends("Mol", 0))
}

func TestEvaluateBatch_DefaultMolecules(t *testing.T) {
	logger := testutil.NewMockLogger()
	svc := NewService(testutil.NewEvaluator(t), logger)
	smiles, _ := DefaultBatch()

	res, err := svc.EvaluateBatch(context.Background(), smiles)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Empty(t, res.Invalid())
	for i, it := range res.Items {
		assert.Equal(t, i, it.Index)
		assert.Equal(t, smiles[i], it.SMILES)
		assert.NoError(t, it.Err)
		require.NotNil(t, it.Outcome)
		assert.Len(t, it.Outcome.Results, 4)
		assert.False(t, it.Cached)
	}
	w, _ := res.Items[0].Outcome.Results.Get(druglikeness.CriterionMolecularWeight)
	assert.Equal(t, "451.38 < 500", w.Description)
	assert.True(t, w.Passed)

	m, ok := logger.Find("info", "batch evaluated")
	require.True(t, ok)
	total, _ := m.Field("total")
	assert.Equal(t, 2, total)
}

func TestEvaluateBatch_SkipsInvalidAndContinues(t *testing.T) {
	svc := NewService(testutil.NewEvaluator(t), nil)

	res, err := svc.EvaluateBatch(context.Background(), []string{"CCO", "C1CC", "", "c1ccccc1"})
	require.NoError(t, err)
	require.Len(t, res.Items, 4)

	invalid := res.Invalid()
	require.Len(t, invalid, 2)
	assert.Equal(t, 1, invalid[0].Index)
	assert.Equal(t, 2, invalid[1].Index)
	for _, it := range invalid {
		assert.Nil(t, it.Outcome)
		assert.True(t, errors.IsInvalidStructure(it.Err))
	}

	outs := res.Outcomes()
	require.Len(t, outs, 2)
	assert.Equal(t, "CCO", outs[0].SMILES)
	assert.Equal(t, "c1ccccc1", outs[1].SMILES)
}

func TestEvaluateBatch_Cancelled(t *testing.T) {
	svc := NewService(testutil.NewEvaluator(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.EvaluateBatch(ctx, []string{"CCO", "CC"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Items)
}

func TestEvaluate_CacheHit(t *testing.T) {
	cached := &druglikeness.EvaluationOutcome{SMILES: "CCO", PassesAll: true}
	cache := new(MockOutcomeCache)
	cache.On("Get", mock.Anything, "CCO").Return(cached, nil)

	svc := NewService(testutil.NewEvaluator(t), nil, WithCache(cache))
	res, err := svc.EvaluateBatch(context.Background(), []string{"CCO"})
	require.NoError(t, err)
	assert.Same(t, cached, res.Items[0].Outcome)
	assert.True(t, res.Items[0].Cached)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestEvaluate_CacheMissStores(t *testing.T) {
	cache := new(MockOutcomeCache)
	cache.On("Get", mock.Anything, "CCO").Return(nil, errMiss)
	cache.On("Set", mock.Anything, mock.MatchedBy(func(o *druglikeness.EvaluationOutcome) bool {
		return o.SMILES == "CCO" && o.PassesAll
	})).Return(nil)

	out, err := NewService(testutil.NewEvaluator(t), nil, WithCache(cache)).Evaluate(context.Background(), "CCO")
	require.NoError(t, err)
	assert.Equal(t, "C2H6O", out.Formula)
	cache.AssertExpectations(t)
}

func TestEvaluate_CacheFailuresDegradeToMiss(t *testing.T) {
	cache := new(MockOutcomeCache)
	cache.On("Get", mock.Anything, "CCO").Return(nil, stderrors.New("connection refused"))
	cache.On("Set", mock.Anything, mock.Anything).Return(stderrors.New("connection refused"))

	logger := testutil.NewMockLogger()
	out, err := NewService(testutil.NewEvaluator(t), logger, WithCache(cache)).Evaluate(context.Background(), "CCO")
	require.NoError(t, err)
	assert.True(t, out.PassesAll)
	assert.True(t, logger.HasMessage("warn", "outcome cache read failed"))
	m, ok := logger.Find("warn", "outcome cache write failed")
	require.True(t, ok)
	smiles, _ := m.Field("smiles")
	assert.Equal(t, "CCO", smiles)
}

func TestEvaluate_InvalidNotCached(t *testing.T) {
	cache := new(MockOutcomeCache)
	cache.On("Get", mock.Anything, "C1CC").Return(nil, errMiss)

	_, err := NewService(testutil.NewEvaluator(t), nil, WithCache(cache)).Evaluate(context.Background(), "C1CC")
	assert.True(t, errors.IsInvalidStructure(err))
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestEvaluate_NoEvaluator(t *testing.T) {
	_, err := NewService(nil, nil).Evaluate(context.Background(), "CCO")
	assert.True(t, errors.IsCode(err, errors.CodeInternal))
}

func TestEvaluateBatch_RecordsMetrics(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "t"}, nil)
	require.NoError(t, err)
	svc := NewService(testutil.NewEvaluator(t), nil, WithMetrics(prometheus.NewAppMetrics(collector)))

	_, err = svc.EvaluateBatch(context.Background(), []string{"CCO", "C1CC", "CCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `t_evaluations_total{verdict="pass"} 1`)
	assert.Contains(t, body, `t_evaluations_total{verdict="invalid"} 1`)
	assert.Contains(t, body, `t_evaluations_total{verdict="fail"} 1`)
	assert.Contains(t, body, `t_criterion_failures_total{criterion="LogP"} 1`)
	assert.Contains(t, body, "t_batch_size_sum 3")
}

func TestDepict(t *testing.T) {
	opts := depict.DefaultOptions()
	opts.Legends = []string{"a", "b"}
	r := new(MockRenderer)
	var buf bytes.Buffer
	r.On("Render", mock.Anything, &buf, []string{"CCO", "C1CC"}, opts).Return([]string{"C1CC"}, nil)

	failed, err := NewService(nil, nil, WithRenderer(r)).Depict(context.Background(), &buf, []string{"CCO", "C1CC"}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"C1CC"}, failed)
	r.AssertExpectations(t)
}

func TestDepict_WithToolkit(t *testing.T) {
	smiles, legends := DefaultBatch()
	opts := depict.DefaultOptions()
	opts.Legends = legends

	var buf bytes.Buffer
	failed, err := NewService(nil, nil, WithRenderer(toolkit.New())).Depict(context.Background(), &buf, smiles, opts)
	require.NoError(t, err)
	assert.Empty(t, failed)
	assert.Contains(t, buf.String(), `width="600"`)
	assert.Contains(t, buf.String(), ">Molecule 1</text>")
}

func TestDepict_NoRenderer(t *testing.T) {
	_, err := NewService(nil, nil).Depict(context.Background(), io.Discard, []string{"C"}, depict.DefaultOptions())
	assert.True(t, errors.IsCode(err, errors.CodeInternal))
}

func TestDepict_RendererError(t *testing.T) {
	r := new(MockRenderer)
	r.On("Render", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New(errors.ErrCodeDepictionFailed, "boom"))

	_, err := NewService(nil, nil, WithRenderer(r)).Depict(context.Background(), io.Discard, []string{"C"}, depict.DefaultOptions())
	assert.True(t, errors.IsCode(err, errors.ErrCodeDepictionFailed))
}
