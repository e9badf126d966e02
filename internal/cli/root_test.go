package cli

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWith(t *testing.T, args ...string) *app {
	t.Helper()
	a := &app{}
	root := newRootCmd(a)
	root.AddCommand(&cobra.Command{Use: "noop", RunE: func(*cobra.Command, []string) error { return nil }})
	root.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env"), "--log-level", "error"}, args...))
	require.NoError(t, root.Execute())
	return a
}

func TestSetup_APIFlagAndSocketURL(t *testing.T) {
	t.Run("explicit socket url kept", func(t *testing.T) {
		t.Setenv("DRAFT_API_URL", "http://env-api:8000")
		t.Setenv("DRAFT_WS_URL", "wss://sockets.example")
		a := setupWith(t, "--api", "https://flag-api.example", "noop")
		assert.Equal(t, "https://flag-api.example", a.cfg.APIURL)
		assert.Equal(t, "wss://sockets.example", a.cfg.WSURL)
	})

	t.Run("derived socket url follows the flag", func(t *testing.T) {
		t.Setenv("DRAFT_API_URL", "http://env-api:8000")
		t.Setenv("DRAFT_WS_URL", "")
		a := setupWith(t, "--api", "https://flag-api.example", "noop")
		assert.Equal(t, "wss://flag-api.example", a.cfg.WSURL)
	})

	t.Run("token flag overrides env", func(t *testing.T) {
		t.Setenv("DRAFT_TOKEN", "from-env")
		a := setupWith(t, "--token", "from-flag", "noop")
		assert.Equal(t, "from-flag", a.cfg.Token)
	})
}
