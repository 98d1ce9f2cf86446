package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
)

const sample = `
[server]
base_url = "https://wechange.de"
filter_group = "berlin"

[search]
debounce_ms = 250
page_size = 20
infinite_scroll = true

[page.features]
ideas = true

[page.marker_icons]
events = "E"

[[page.topics]]
id = 1
name = "Bildung"

[[page.topics]]
id = 2
name = "Kultur"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 400*time.Millisecond, cfg.BaseDelay())
	assert.Equal(t, 5*time.Second, cfg.ExtendedDelay())
	assert.Equal(t, 3, cfg.Search.MinQueryLength)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{
		Path:        filepath.Join(t.TempDir(), "absent.toml"),
		Environment: map[string]string{},
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)

	_, err = Load(LoadOptions{
		Path:        filepath.Join(t.TempDir(), "absent.toml"),
		Required:    true,
		Environment: map[string]string{},
	})
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(LoadOptions{Path: writeConfig(t, sample), Environment: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, "https://wechange.de", cfg.Server.BaseURL)
	assert.Equal(t, "/maps/search/", cfg.Server.SearchPath, "unset keys keep defaults")
	assert.Equal(t, "berlin", cfg.Server.FilterGroup)
	assert.Equal(t, 250*time.Millisecond, cfg.BaseDelay())
	assert.Equal(t, 20, cfg.Search.PageSize)
	assert.True(t, cfg.Search.InfiniteScroll)
	assert.True(t, cfg.Feature("ideas"))
	assert.False(t, cfg.Feature("maps"))
	assert.Equal(t, "E", cfg.Icon(domain.TypeEvents))
	assert.Equal(t, "Kultur", cfg.TopicName(2))
	assert.Equal(t, "7", cfg.TopicName(7))
}

func TestPrecedence(t *testing.T) {
	path := writeConfig(t, sample)

	cfg, err := Load(LoadOptions{
		Path: path,
		Environment: map[string]string{
			"COSINNUS_SERVER_BASE_URL":     "https://env.example",
			"COSINNUS_SEARCH_PAGE_SIZE":    "30",
			"COSINNUS_SERVER_FILTER_GROUP": "hamburg",
		},
		Overrides: Overrides{FilterGroup: "munich"},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.Server.BaseURL, "env beats file")
	assert.Equal(t, 30, cfg.Search.PageSize)
	assert.Equal(t, "munich", cfg.Server.FilterGroup, "flags beat env")
	assert.Equal(t, 250, cfg.Search.DebounceMS, "file beats defaults")
}

func TestLoadReportsParseErrors(t *testing.T) {
	_, err := Load(LoadOptions{Path: writeConfig(t, "[server\nbase_url = 1"), Environment: map[string]string{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.BaseURL = "not a url"
	cfg.Search.ExtendedDebounceMS = 10
	cfg.Map.North = cfg.Map.South

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
	assert.Contains(t, err.Error(), "extended_debounce_ms")
	assert.Contains(t, err.Error(), "map bounds")
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, "Bildung", cfg.TopicName(1))
}
