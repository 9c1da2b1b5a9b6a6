package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pkt.systems/ansimark/internal/palette"
)

func TestParseFullConfig(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
render:
  ansi: on
  xterm: off
  mxp: true
  width: 72
palette:
  ember: "#ff4500"
  moss: "#3a5"
legacy:
  o: "+ember"
  u: "underline"
log:
  level: debug
`))
	require.NoError(t, err)
	require.Equal(t, "on", cfg.Render.ANSI)
	require.Equal(t, "off", cfg.Render.Xterm)
	require.True(t, cfg.Render.MXP)
	require.Equal(t, 72, cfg.Render.Width)
	require.Equal(t, "debug", cfg.Log.Level)

	colors, err := cfg.PaletteColors()
	require.NoError(t, err)
	require.Equal(t, palette.RGB{R: 0xff, G: 0x45, B: 0x00}, colors["ember"])
	require.Equal(t, palette.RGB{R: 0x33, G: 0xaa, B: 0x55}, colors["moss"])

	codes := cfg.LegacyCodes()
	require.Equal(t, "+ember", codes['o'])
	require.Equal(t, "underline", codes['u'])
}

func TestParseKeepsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte("log:\n  level: info\n"))
	require.NoError(t, err)
	require.Equal(t, "auto", cfg.Render.ANSI)
	require.Equal(t, "auto", cfg.Render.Xterm)
	require.Zero(t, cfg.Render.Width)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"capability": "render:\n  ansi: sometimes\n",
		"hex":        "palette:\n  ember: orange\n",
		"name":       "palette:\n  \"bad name\": \"#fff\"\n",
		"code":       "legacy:\n  ab: red\n",
		"level":      "log:\n  level: loud\n",
		"width":      "render:\n  width: -1\n",
	}
	for name, src := range cases {
		name, src := name, src
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(src))
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %T: %v", err, err)
		})
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("render: [unterminated"))
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ansimark.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  mxp: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Render.MXP)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
