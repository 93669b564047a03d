package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWriteDefault_Loads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefault(path))

	cfg, _, err := Load(path)
	require.NoError(t, err)

	want := Defaults()
	require.Equal(t, want.Panels, cfg.Panels)
	require.Equal(t, want.UI, cfg.UI)
	require.Equal(t, want.Resources, cfg.Resources)
	require.Equal(t, want.Tracing, cfg.Tracing)
	require.Equal(t, want.Control, cfg.Control)
}

func TestWriteDefault_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "log:\n  level: warn\n", string(data))
}

func TestSavePanels_PreservesOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`# keep me
log:
  level: warn # inline
panels:
  - name: old
`), 0o600))

	panels := []PanelConfig{
		{Name: "a", Title: "Alpha", Key: "a", Priority: "high", Content: ContentConfig{Type: ContentText, Text: "hi"}},
		{Name: "b", Priority: "low", Suppressible: true, Content: ContentConfig{Type: ContentCommand, Command: "date", Timeout: 3 * time.Second}},
	}
	require.NoError(t, SavePanels(path, panels))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# keep me")
	require.Contains(t, string(data), "# inline")
	require.NotContains(t, string(data), "old")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Len(t, cfg.Panels, 2)
	require.Equal(t, "Alpha", cfg.Panels[0].Title)
	require.Equal(t, "high", cfg.Panels[0].Priority)
	require.True(t, cfg.Panels[1].Suppressible)
	require.Equal(t, 3*time.Second, cfg.Panels[1].Content.Timeout)
}

func TestSavePanels_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, SavePanels(path, []PanelConfig{{Name: "x", Content: ContentConfig{Text: "t"}}}))

	cfg, _, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Panels, 1)
	require.Equal(t, "medium", cfg.Panels[0].Priority)
	require.Equal(t, ContentText, cfg.Panels[0].Content.Type)
}

func TestSavePanels_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := SavePanels(path, []PanelConfig{{Name: ""}})
	require.ErrorIs(t, err, ErrInvalidPanel)
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}
