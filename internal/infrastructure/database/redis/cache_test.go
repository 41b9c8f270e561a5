package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/druglike/internal/domain/druglikeness"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/druglike/pkg/errors"
)

type CacheTestSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	cache *OutcomeCache
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	client := NewClientFrom(db, logging.NewNopLogger())
	s.cache = NewOutcomeCache(client, logging.NewNopLogger(),
		WithPrefix("test:"), WithTTL(time.Hour), WithJitter(false))
}

func (s *CacheTestSuite) TearDownTest() {
	assert.NoError(s.T(), s.mock.ExpectationsWereMet())
}

func TestCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func ethanolOutcome() *druglikeness.EvaluationOutcome {
	return &druglikeness.EvaluationOutcome{
		SMILES:      "CCO",
		Formula:     "C2H6O",
		Descriptors: druglikeness.Descriptors{MolecularWeight: 46.069, LogP: -0.0014, HDonors: 1, HAcceptors: 1},
		Results: druglikeness.RuleResult{
			{Criterion: druglikeness.CriterionMolecularWeight, Passed: true, Description: "46.07 < 500", Value: 46.069, Threshold: 500},
		},
		PassesAll: true,
	}
}

func (s *CacheTestSuite) TestKey_IsVersionedDigest() {
	k := s.cache.Key("CCO")
	assert.Equal(s.T(), "test:v1:", k[:8])
	assert.Len(s.T(), k, 8+64)
	assert.NotEqual(s.T(), k, s.cache.Key("OCC"))
}

func (s *CacheTestSuite) TestGet_Hit() {
	want := ethanolOutcome()
	data, _ := json.Marshal(want)
	s.mock.ExpectGet(s.cache.Key("CCO")).SetVal(string(data))

	got, err := s.cache.Get(context.Background(), "CCO")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), want, got)
}

func (s *CacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet(s.cache.Key("CCO")).RedisNil()

	got, err := s.cache.Get(context.Background(), "CCO")
	assert.Nil(s.T(), got)
	assert.Equal(s.T(), ErrCacheMiss, err)
}

func (s *CacheTestSuite) TestGet_BackendError() {
	s.mock.ExpectGet(s.cache.Key("CCO")).SetErr(errors.New("connection reset"))

	_, err := s.cache.Get(context.Background(), "CCO")
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheTestSuite) TestGet_CorruptEntryIsMiss() {
	s.mock.ExpectGet(s.cache.Key("CCO")).SetVal("{not json")

	_, err := s.cache.Get(context.Background(), "CCO")
	assert.Equal(s.T(), ErrCacheMiss, err)
}

func (s *CacheTestSuite) TestGet_ForeignEntryIsMiss() {
	other := ethanolOutcome()
	other.SMILES = "OCC"
	data, _ := json.Marshal(other)
	s.mock.ExpectGet(s.cache.Key("CCO")).SetVal(string(data))

	_, err := s.cache.Get(context.Background(), "CCO")
	assert.Equal(s.T(), ErrCacheMiss, err)
}

func (s *CacheTestSuite) TestSet() {
	out := ethanolOutcome()
	data, _ := json.Marshal(out)
	s.mock.ExpectSet(s.cache.Key("CCO"), data, time.Hour).SetVal("OK")

	assert.NoError(s.T(), s.cache.Set(context.Background(), out))
}

func (s *CacheTestSuite) TestSet_Nil() {
	assert.NoError(s.T(), s.cache.Set(context.Background(), nil))
}

func (s *CacheTestSuite) TestSet_BackendError() {
	out := ethanolOutcome()
	data, _ := json.Marshal(out)
	s.mock.ExpectSet(s.cache.Key("CCO"), data, time.Hour).SetErr(errors.New("OOM"))

	err := s.cache.Set(context.Background(), out)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheTestSuite) TestDelete() {
	s.mock.ExpectDel(s.cache.Key("CCO")).SetVal(1)
	assert.NoError(s.T(), s.cache.Delete(context.Background(), "CCO"))
}

func (s *CacheTestSuite) TestPurge() {
	s.mock.ExpectScan(0, "test:*", scanBatch).SetVal([]string{"test:v1:a", "test:v1:b"}, 7)
	s.mock.ExpectDel("test:v1:a", "test:v1:b").SetVal(2)
	s.mock.ExpectScan(7, "test:*", scanBatch).SetVal([]string{"test:v1:c"}, 0)
	s.mock.ExpectDel("test:v1:c").SetVal(1)

	n, err := s.cache.Purge(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), n)
}

func (s *CacheTestSuite) TestPurge_ScanError() {
	s.mock.ExpectScan(0, "test:*", scanBatch).SetErr(errors.New("down"))

	_, err := s.cache.Purge(context.Background())
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func TestOutcomeCache_JitterStaysWithinTenPercent(t *testing.T) {
	c := NewOutcomeCache(nil, nil, WithTTL(time.Hour))
	for i := 0; i < 100; i++ {
		d := c.expiry()
		assert.GreaterOrEqual(t, d, 54*time.Minute)
		assert.LessOrEqual(t, d, 66*time.Minute)
	}
}

func TestOutcomeCache_NoTTL(t *testing.T) {
	c := NewOutcomeCache(nil, nil, WithTTL(0))
	assert.Equal(t, time.Duration(0), c.expiry())
}
