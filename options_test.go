package rectpack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildOptionsDefaults(t *testing.T) {
	o, err := buildOptions()
	require.NoError(t, err)
	require.Equal(t, 10, o.l)
	require.Equal(t, 3, o.t)
	require.Equal(t, 100*time.Second, o.timeLimit)
}

func TestBuildOptionsApplied(t *testing.T) {
	o, err := buildOptions(
		WithTabuParams(5, 2),
		WithTimeLimit(time.Second),
		WithParallelism(4),
		WithSeed(42),
		WithMaxSpread(10),
		WithHeuristicPollInterval(64),
	)
	require.NoError(t, err)
	require.Equal(t, 5, o.l)
	require.Equal(t, 2, o.t)
	require.Equal(t, time.Second, o.timeLimit)
	require.Equal(t, 4, o.parallelism)
	require.Equal(t, uint64(42), o.seed)
	require.Equal(t, 10, o.maxSpread)
	require.Equal(t, 64, o.pollEvery)
}

func TestBuildOptionsRejectsInvalidValues(t *testing.T) {
	_, err := buildOptions(WithTabuParams(0, 2))
	require.ErrorIs(t, err, ErrOptionViolation)

	_, err = buildOptions(WithTimeLimit(0))
	require.ErrorIs(t, err, ErrOptionViolation)

	_, err = buildOptions(WithParallelism(-1))
	require.ErrorIs(t, err, ErrOptionViolation)

	_, err = buildOptions(WithMaxSpread(-1))
	require.ErrorIs(t, err, ErrOptionViolation)

	_, err = buildOptions(WithHeuristicPollInterval(0))
	require.ErrorIs(t, err, ErrOptionViolation)
}
