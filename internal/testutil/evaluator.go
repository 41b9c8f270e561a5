package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/druglike/internal/chem/toolkit"
	"github.com/turtacn/druglike/internal/domain/druglikeness"
)

// NewEvaluator returns an evaluator backed by the native toolkit.
func NewEvaluator(t testing.TB) *druglikeness.Evaluator {
	t.Helper()
	e, err := druglikeness.NewEvaluator(toolkit.New())
	require.NoError(t, err)
	return e
}
