package migrate

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/solace-advocates/advocate-directory-api/internal/db"
)

func TestRun_ValidatesArguments(t *testing.T) {
	t.Parallel()

	if err := Run("", "up"); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("Run(empty dsn) err=%v", err)
	}
	if err := Run("postgres://localhost/db", "sideways"); err == nil || !strings.Contains(err.Error(), "direction") {
		t.Fatalf("Run(bad direction) err=%v", err)
	}
}

func TestDatabaseURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"postgres://u:p@h:5432/d?sslmode=disable": "pgx5://u:p@h:5432/d?sslmode=disable",
		"postgresql://h/d":                        "pgx5://h/d",
		"pgx5://h/d":                              "pgx5://h/d",
	}
	for in, want := range cases {
		if got := DatabaseURL(in); got != want {
			t.Fatalf("DatabaseURL(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestMigrationFS_UpAndDownPaired(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(db.MigrationFS, "migrations")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	if len(ups) == 0 {
		t.Fatalf("no migrations embedded")
	}
	for v := range ups {
		if !downs[v] {
			t.Fatalf("migration %s has no down file", v)
		}
	}
}
