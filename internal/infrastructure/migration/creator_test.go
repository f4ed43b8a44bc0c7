package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"add penalty tiers":    "add_penalty_tiers",
		"Add-Penalty-Tiers":    "add_penalty_tiers",
		"ADD_PENALTY_TIERS":    "add_penalty_tiers",
		"add__penalty__tiers":  "add_penalty_tiers",
		"Create Households 42": "create_households_42",
		"   spaces   ":         "spaces",
		"special!@#$chars":     "specialchars",
		"trailing_":            "trailing",
		"_leading":             "leading",
		"":                     "",
	}

	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, slugify(input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "create households", "Households and their members")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// Version is a 14 digit timestamp.
	assert.Len(t, mf.Version, 14)

	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "create households")
	assert.Contains(t, string(up), "Households and their members")
	assert.Contains(t, string(up), "Forward migration SQL")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "Rollback")
	assert.Contains(t, string(down), "Rollback SQL")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "db", "migrations")

	_, err := CreateMigration(nested, "init", "first migration")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	for _, f := range []string{
		"20260510090000_create_associations.up.sql",
		"20260510090000_create_associations.down.sql",
		"20260510090100_create_users.up.sql",
		"20260510090100_create_users.down.sql",
		"20260510090200_create_households.up.sql",
		"20260510090200_create_households.down.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("-- test"), 0644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Contains(t, migrations, "20260510090000_create_associations")
	assert.Contains(t, migrations, "20260510090100_create_users")
	assert.Contains(t, migrations, "20260510090200_create_households")
}

func TestListMigrations_EmptyDirectory(t *testing.T) {
	migrations, err := ListMigrations(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	migrations, err := ListMigrations("/nonexistent/path/to/migrations")
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_IgnoresNonMigrationFiles(t *testing.T) {
	dir := t.TempDir()

	for _, f := range []string{
		"20260510090000_init.up.sql",
		"20260510090000_init.down.sql",
		"README.md",
		"config.yaml",
		".gitkeep",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("test"), 0644))
	}

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migrations, 1)
	assert.Contains(t, migrations, "20260510090000_init")
}

func TestListMigrations_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260510090000_init.up.sql"), []byte("test"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260510090000_init.down.sql"), []byte("test"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.up.sql"), 0755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Len(t, migrations, 1)
}
