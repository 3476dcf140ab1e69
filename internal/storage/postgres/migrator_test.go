package postgres

import (
	"strings"
	"testing"
	"testing/fstest"
)

func TestReadMigrations_Success(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"sql/migrations/0001_init.up.sql": {
			Data: []byte("CREATE TABLE test_a (id INT);"),
		},
		"sql/migrations/0001_init.down.sql": {
			Data: []byte("DROP TABLE IF EXISTS test_a;"),
		},
		"sql/migrations/0002_more.up.sql": {
			Data: []byte("CREATE TABLE test_b (id INT);"),
		},
		"sql/migrations/0002_more.down.sql": {
			Data: []byte("DROP TABLE IF EXISTS test_b;"),
		},
	}

	migrations, err := readMigrations(fsys)
	if err != nil {
		t.Fatalf("readMigrations failed: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}

	if migrations[0].Version != 1 || migrations[0].Name != "init" {
		t.Fatalf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "more" {
		t.Fatalf("unexpected second migration: %+v", migrations[1])
	}
}

func TestReadMigrations_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   fstest.MapFS
		wantErr string
	}{
		{
			name: "missing down",
			files: fstest.MapFS{
				"sql/migrations/0001_init.up.sql": {Data: []byte("CREATE TABLE test_a (id INT);")},
			},
			wantErr: "both up and down",
		},
		{
			name: "invalid file name",
			files: fstest.MapFS{
				"sql/migrations/not_a_migration.sql": {Data: []byte("SELECT 1;")},
			},
			wantErr: "invalid migration file name",
		},
		{
			name: "empty body",
			files: fstest.MapFS{
				"sql/migrations/0001_init.up.sql":   {Data: []byte("   \n")},
				"sql/migrations/0001_init.down.sql": {Data: []byte("DROP TABLE IF EXISTS test;")},
			},
			wantErr: "migration file is empty",
		},
		{
			name: "name mismatch for same version",
			files: fstest.MapFS{
				"sql/migrations/0001_init.up.sql":    {Data: []byte("CREATE TABLE test_a (id INT);")},
				"sql/migrations/0001_other.down.sql": {Data: []byte("DROP TABLE IF EXISTS test_a;")},
			},
			wantErr: "name mismatch",
		},
		{
			name:    "no files",
			files:   fstest.MapFS{},
			wantErr: "no migration files",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := readMigrations(tc.files)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
