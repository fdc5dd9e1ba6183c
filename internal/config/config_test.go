package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/gridfield/internal/field"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, field.GridSpec{Columns: 40, Rows: 20}, cfg.Grid)
	assert.Equal(t, "stable", cfg.Animation.Mode)
	assert.Equal(t, 0.05, cfg.Animation.Chance)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("GRIDFIELD_SEARCH_URL", "")
	t.Setenv("GRIDFIELD_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("GRIDFIELD_SEARCH_URL", "")
	t.Setenv("GRIDFIELD_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "nested", "gridfield.yaml")
	cfg := DefaultConfig()
	cfg.Grid = field.GridSpec{Columns: 12, Rows: 6}
	cfg.Animation.Mode = "reroll"
	cfg.Search.Timeout = 3 * time.Second

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadZeroChanceTurnsAnimationOff(t *testing.T) {
	t.Setenv("GRIDFIELD_SEARCH_URL", "")
	t.Setenv("GRIDFIELD_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "gridfield.yaml")
	require.NoError(t, os.WriteFile(path, []byte("animation:\n  chance: 0\n  max_delay: 0\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	opts := cfg.FieldOptions()
	require.NotNil(t, opts.Params)
	assert.Equal(t, field.AnimationParams{}, *opts.Params)

	f, err := field.New(cfg.Grid, opts)
	require.NoError(t, err)
	for _, c := range f.Cells() {
		assert.False(t, c.Animated, "cell %d", c.ID)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Setenv("GRIDFIELD_SEARCH_URL", "")
	t.Setenv("GRIDFIELD_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "gridfield.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid:\n  columns: 8\n  rows: 4\nanimation:\n  frame_aligned: true\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Grid.Columns)
	assert.True(t, cfg.Animation.FrameAligned)
	assert.Equal(t, "stable", cfg.Animation.Mode)
	assert.Equal(t, WindowWidth, cfg.Window.Width)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"zero grid":   "grid:\n  columns: 0\n  rows: 4\n",
		"bad mode":    "animation:\n  mode: sometimes\n",
		"bad chance":  "animation:\n  chance: 1.5\n",
		"tiny window": "window:\n  width: 10\n  height: 10\n",
		"broken yaml": "grid: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "gridfield.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GRIDFIELD_SEARCH_URL", "https://search.example.test")
	t.Setenv("GRIDFIELD_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://search.example.test", cfg.Search.BaseURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestFieldOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Animation.Mode = "reroll"
	cfg.Animation.FrameAligned = true

	opts := cfg.FieldOptions()
	assert.Equal(t, field.AnimationReroll, opts.Mode)
	assert.True(t, opts.FrameAligned)
	require.NotNil(t, opts.Params)
	assert.Equal(t, field.DefaultAnimationParams(), *opts.Params)
}
