package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTuning(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultTuningIsValid(t *testing.T) {
	assert.NoError(t, DefaultTuning().Validate())
}

func TestLoadTuningOverlaysDefaults(t *testing.T) {
	path := writeTuning(t, t.TempDir(), "winning_score: 3\nball_speed: 300\n")

	tuning, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 3, tuning.WinningScore)
	assert.Equal(t, 300.0, tuning.BallSpeed)
	assert.Equal(t, DefaultTuning().Width, tuning.Width)
	assert.Equal(t, DefaultTuning().Friction, tuning.Friction)
}

func TestLoadTuningErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTuning(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadTuning(writeTuning(t, dir, "width: [1, 2\n"))
	assert.Error(t, err)

	_, err = LoadTuning(writeTuning(t, dir, "friction: 1.5\n"))
	assert.ErrorContains(t, err, "friction")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Tuning){
		"zero width":      func(t *Tuning) { t.Width = 0 },
		"too tall":        func(t *Tuning) { t.Height = 40000 },
		"no ball":         func(t *Tuning) { t.BallSize = 0 },
		"friction":        func(t *Tuning) { t.Friction = 1 },
		"inverted effect": func(t *Tuning) { t.MinEffectMs = t.MaxEffectMs + 1 },
		"winning score":   func(t *Tuning) { t.WinningScore = 256 },
		"tick rate":       func(t *Tuning) { t.TickRate = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			tuning := DefaultTuning()
			mutate(&tuning)
			assert.Error(t, tuning.Validate())
		})
	}
}
