package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netman-network/netman/pkg/settings"
)

func TestParseKeyValues(t *testing.T) {
	got, err := parseKeyValues([]string{
		"backup_file=/tmp/r1.cfg",
		`commands=["show version","show clock"]`,
		"count=3",
		"empty=",
		"expr=a=b",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/r1.cfg", got["backup_file"])
	assert.Equal(t, []any{"show version", "show clock"}, got["commands"])
	assert.Equal(t, float64(3), got["count"])
	assert.Equal(t, "", got["empty"])
	assert.Equal(t, "a=b", got["expr"])
}

func TestParseKeyValues_Invalid(t *testing.T) {
	for _, pair := range []string{"novalue", "=value"} {
		_, err := parseKeyValues([]string{pair})
		assert.Error(t, err, pair)
	}
}

func TestResolvePlaybook(t *testing.T) {
	dir := t.TempDir()
	app.settings = &settings.Settings{PlaybookDir: dir}
	t.Cleanup(func() { app.settings = nil })

	assert.Equal(t, filepath.Join(dir, "backup_config.yml"), resolvePlaybook("backup_config.yml"))
	assert.Equal(t, "other/site.yml", resolvePlaybook("other/site.yml"))

	t.Chdir(dir)
	require.NoError(t, os.WriteFile("local.yml", nil, 0644))
	assert.Equal(t, "local.yml", resolvePlaybook("local.yml"))
}

func TestIsSettingsOrHelp(t *testing.T) {
	assert.True(t, isSettingsOrHelp(settingsSetCmd))
	assert.True(t, isSettingsOrHelp(versionCmd))
	assert.False(t, isSettingsOrHelp(factsCmd))
	assert.False(t, isSettingsOrHelp(runModuleCmd))
}
