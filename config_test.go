package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	doc := `
initial_capacity: 64
log_level: debug
metrics_address: "127.0.0.1:8125"
max_services: 4
storage_overrides:
  Position: sparse
  scene.Tag: dense
`
	cfg, err := LoadConfig(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, Config{
		InitialCapacity:  64,
		LogLevel:         "debug",
		MetricsAddress:   "127.0.0.1:8125",
		MaxServices:      4,
		StorageOverrides: map[string]string{"Position": "sparse", "scene.Tag": "dense"},
	}, cfg)

	kind, ok := cfg.storageOverride(ComponentType{Name: "scene.Position"})
	assert.True(t, ok)
	assert.Equal(t, Sparse, kind)
	kind, ok = cfg.storageOverride(ComponentType{Name: "scene.Tag"})
	assert.True(t, ok)
	assert.Equal(t, Dense, kind)
	_, ok = cfg.storageOverride(ComponentType{Name: "scene.Health"})
	assert.False(t, ok)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"negative capacity", "initial_capacity: -5"},
		{"negative services", "max_services: -1"},
		{"unknown storage", "storage_overrides:\n  Position: columnar"},
		{"malformed", "initial_capacity: [1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SCENE_INITIAL_CAPACITY", "32")
	t.Setenv("SCENE_LOG_LEVEL", "warn")
	t.Setenv("SCENE_METRICS_NAMESPACE", "game.")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.InitialCapacity)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "game.", cfg.MetricsNamespace)
	assert.Empty(t, cfg.MetricsAddress)
}

func TestConfigMerge(t *testing.T) {
	base := Config{
		InitialCapacity:  128,
		LogLevel:         "info",
		StorageOverrides: map[string]string{"Position": "sparse"},
	}
	merged := base.Merge(Config{
		LogLevel:         "debug",
		StorageOverrides: map[string]string{"Tag": "dense"},
	})

	assert.Equal(t, 128, merged.InitialCapacity)
	assert.Equal(t, "debug", merged.LogLevel)
	assert.Equal(t, map[string]string{"Position": "sparse", "Tag": "dense"}, merged.StorageOverrides)
	assert.Len(t, base.StorageOverrides, 1, "merge must not mutate the receiver")
}
