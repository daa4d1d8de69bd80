package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase passthrough", "add_users_table", "add_users_table"},
		{"uppercase folded", "Add Fee Records", "add_fee_records"},
		{"mixed separators collapsed", "add - fee__records", "add_fee_records"},
		{"special characters dropped", "add (v2) records!", "add_v2_records"},
		{"trailing separator trimmed", "add records ", "add_records"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	pair, err := CreateMigration(dir, "add fee records")
	require.NoError(t, err)

	assert.Len(t, pair.Version, 14)
	assert.FileExists(t, pair.UpPath)
	assert.FileExists(t, pair.DownPath)

	up, err := os.ReadFile(pair.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add fee records")

	assert.Equal(t, filepath.Join(dir, pair.Version+"_add_fee_records.up.sql"), pair.UpPath)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	_, err := CreateMigration(dir, "first")
	require.NoError(t, err)

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.Contains(t, migrations[0], "_first")
}

func TestListMigrationsMissingDir(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
