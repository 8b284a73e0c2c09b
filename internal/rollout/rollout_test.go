package rollout

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetris-gym/internal/agent"
	"github.com/vovakirdan/tetris-gym/internal/engine"
)

var smallCfg = engine.Config{Width: 6, Height: 8, PieceSize: 3}

func quietLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.ErrorLevel})
}

func randomAgents(n int, seed int64) []agent.Agent {
	out := make([]agent.Agent, n)
	for i := range out {
		out[i] = agent.NewRandom(seed + int64(i))
	}
	return out
}

func TestNewVecEnv(t *testing.T) {
	_, err := NewVecEnv(smallCfg, 0, 1)
	assert.Error(t, err)

	_, err = NewVecEnv(engine.Config{Width: 6, Height: 2, PieceSize: 3}, 2, 1)
	assert.ErrorIs(t, err, engine.ErrConfiguration)

	v, err := NewVecEnv(smallCfg, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())
	assert.Len(t, v.Reset(), 3)
}

func TestVecEnvMatchesSerialEngines(t *testing.T) {
	const n = 4
	v, err := NewVecEnv(smallCfg, n, 10)
	require.NoError(t, err)
	v.Reset()

	serial := make([]*engine.Engine, n)
	for i := range serial {
		serial[i], err = engine.New(smallCfg, rand.New(rand.NewSource(10+int64(i))))
		require.NoError(t, err)
		// Match the extra draw from v.Reset above.
		serial[i].Reset()
	}

	agents := randomAgents(n, 99)
	twins := randomAgents(n, 99)
	actions := make([]int, n)

	for step := 0; step < 200; step++ {
		for i := range actions {
			actions[i] = agents[i].Act(v.Env(i))
		}
		got, err := v.Step(context.Background(), actions)
		require.NoError(t, err)

		for i, e := range serial {
			require.Equal(t, actions[i], twins[i].Act(e))
			want, err := e.Step(actions[i])
			require.NoError(t, err)

			assert.Equal(t, want.Done, got[i].Done)
			assert.Equal(t, want.Reward, got[i].Reward)
			if want.Done {
				assert.Equal(t, want.Observation, got[i].TerminalObservation)
				assert.Equal(t, e.Reset(), got[i].Observation)
			} else {
				assert.Equal(t, want.Observation, got[i].Observation)
				assert.Nil(t, got[i].TerminalObservation)
			}
		}
	}
}

func TestVecEnvStepErrors(t *testing.T) {
	v, err := NewVecEnv(smallCfg, 2, 1)
	require.NoError(t, err)
	v.Reset()

	_, err = v.Step(context.Background(), []int{0})
	assert.Error(t, err)

	_, err = v.Step(context.Background(), []int{0, 1 << 20})
	assert.ErrorIs(t, err, engine.ErrIllegalAction)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = v.Step(ctx, []int{0, 0})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollect(t *testing.T) {
	v, err := NewVecEnv(smallCfg, 3, 5)
	require.NoError(t, err)

	s, err := Collect(context.Background(), v, randomAgents(3, 5), Options{Episodes: 7, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Len(t, s.Scores, 7)
	assert.Zero(t, s.Truncated)
	assert.Positive(t, s.Steps)
	for _, sc := range s.Scores {
		assert.GreaterOrEqual(t, sc, 0)
	}
	assert.GreaterOrEqual(t, s.Max, s.Mean)
	assert.LessOrEqual(t, s.Min, s.Mean)
}

func TestCollectStepCap(t *testing.T) {
	v, err := NewVecEnv(engine.Config{Width: 6, Height: 40, PieceSize: 1}, 2, 1)
	require.NoError(t, err)

	// Monominoes on a tall grid with a random policy cannot lock out within
	// three steps, so every episode is cut by the cap.
	s, err := Collect(context.Background(), v, randomAgents(2, 1), Options{Episodes: 4, MaxSteps: 3, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Len(t, s.Scores, 4)
	assert.Equal(t, 4, s.Truncated)
	assert.Equal(t, 12, s.Steps)
}

func TestCollectDeterministic(t *testing.T) {
	run := func() []int {
		v, err := NewVecEnv(smallCfg, 2, 42)
		require.NoError(t, err)
		s, err := Collect(context.Background(), v, randomAgents(2, 42), Options{Episodes: 5, Logger: quietLogger()})
		require.NoError(t, err)
		return s.Scores
	}
	assert.Equal(t, run(), run())
}

func TestCollectValidates(t *testing.T) {
	v, err := NewVecEnv(smallCfg, 2, 1)
	require.NoError(t, err)

	_, err = Collect(context.Background(), v, randomAgents(1, 1), Options{Episodes: 1})
	assert.Error(t, err)
	_, err = Collect(context.Background(), v, randomAgents(2, 1), Options{})
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]int{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, s.Mean, 1e-9)
	assert.InDelta(t, 2.0, s.Std, 1e-9)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)

	empty := Summarize(nil)
	assert.Zero(t, empty.Mean)
}

func TestPlotScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots", "scores.png")
	err := PlotScores(path, "test", map[string][]int{
		"random": {0, 1, 0, 2},
		"greedy": {3, 4, 2, 5},
	})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Error(t, PlotScores(path, "empty", nil))
}
