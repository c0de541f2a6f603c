package appconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Config{
		InSelector:  "0",
		OutSelector: "1:2",
		Channel:     3,
		Settle:      500 * time.Millisecond,
		LogLevel:    "debug",
	}
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestParseOverlaysFlagsOntoBase(t *testing.T) {
	base := Default()
	base.InSelector = "existing"

	cfg, save, err := Parse(base, []string{"--out", "1", "--channel", "5", "--settle", "250", "--log-level", "debug", "--save"})
	require.NoError(t, err)

	assert.True(t, save)
	assert.Equal(t, "existing", cfg.InSelector)
	assert.Equal(t, "1", cfg.OutSelector)
	assert.Equal(t, uint8(5), cfg.Channel)
	assert.Equal(t, 250*time.Millisecond, cfg.Settle)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseNoFlagsKeepsBase(t *testing.T) {
	base := Config{
		InSelector:  "0",
		OutSelector: "1",
		Channel:     2,
		Settle:      750 * time.Millisecond,
		LogLevel:    "warn",
	}

	cfg, save, err := Parse(base, nil)
	require.NoError(t, err)
	assert.False(t, save)
	assert.Equal(t, base, cfg)
}

func TestParseInvalidFlagErrors(t *testing.T) {
	_, _, err := Parse(Default(), []string{"--unknown"})
	assert.Error(t, err)
}
