package dialect

import (
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		dialectType DialectType
		wantName    string
		wantErr     bool
	}{
		{"sqlite", SQLite, "sqlite", false},
		{"postgres", Postgres, "postgres", false},
		{"mysql", MySQL, "mysql", false},
		{"unknown", DialectType("unknown"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.dialectType)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && d.Name() != tt.wantName {
				t.Errorf("Name() = %v, want %v", d.Name(), tt.wantName)
			}
		})
	}
}

func TestFromDriverName(t *testing.T) {
	tests := []struct {
		driverName string
		wantName   string
		wantErr    bool
	}{
		{"sqlite", "sqlite", false},
		{"sqlite3", "sqlite", false},
		{"postgres", "postgres", false},
		{"pgx", "postgres", false},
		{"mysql", "mysql", false},
		{"unknown", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.driverName, func(t *testing.T) {
			d, err := FromDriverName(tt.driverName)
			if (err != nil) != tt.wantErr {
				t.Errorf("FromDriverName() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && d.Name() != tt.wantName {
				t.Errorf("Name() = %v, want %v", d.Name(), tt.wantName)
			}
		})
	}
}

func TestRebind(t *testing.T) {
	sqlite, _ := New(SQLite)
	postgres, _ := New(Postgres)

	query := "SELECT value FROM local_storage WHERE key = ? AND origin = ?"

	if got := sqlite.Rebind(query); got != query {
		t.Errorf("sqlite Rebind() = %v, want unchanged", got)
	}

	want := "SELECT value FROM local_storage WHERE key = $1 AND origin = $2"
	if got := postgres.Rebind(query); got != want {
		t.Errorf("postgres Rebind() = %v, want %v", got, want)
	}
}

func TestUpsertClause(t *testing.T) {
	tests := []struct {
		dialect DialectType
		want    string
	}{
		{SQLite, "ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at"},
		{Postgres, "ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at"},
		{MySQL, "ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			d, _ := New(tt.dialect)
			got := d.UpsertClause("key", []string{"value", "updated_at"})
			if got != tt.want {
				t.Errorf("UpsertClause() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpsertClause_NoUpdates(t *testing.T) {
	tests := []struct {
		dialect DialectType
		want    string
	}{
		{SQLite, "ON CONFLICT(key) DO NOTHING"},
		{Postgres, "ON CONFLICT (key) DO NOTHING"},
		{MySQL, "ON DUPLICATE KEY UPDATE key = key"},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			d, _ := New(tt.dialect)
			if got := d.UpsertClause("key", nil); got != tt.want {
				t.Errorf("UpsertClause() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColumnTypes(t *testing.T) {
	tests := []struct {
		dialect       DialectType
		wantKey       string
		wantSerial    string
		wantReturning bool
		wantPragmas   int
	}{
		{SQLite, "TEXT", "INTEGER PRIMARY KEY AUTOINCREMENT", true, 2},
		{Postgres, "TEXT", "BIGSERIAL PRIMARY KEY", true, 0},
		{MySQL, "VARCHAR(255)", "BIGINT AUTO_INCREMENT PRIMARY KEY", false, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			d, _ := New(tt.dialect)
			if d.KeyType() != tt.wantKey {
				t.Errorf("KeyType() = %v, want %v", d.KeyType(), tt.wantKey)
			}
			if d.SerialKey() != tt.wantSerial {
				t.Errorf("SerialKey() = %v, want %v", d.SerialKey(), tt.wantSerial)
			}
			if d.SupportsReturning() != tt.wantReturning {
				t.Errorf("SupportsReturning() = %v, want %v", d.SupportsReturning(), tt.wantReturning)
			}
			if len(d.PragmaStatements()) != tt.wantPragmas {
				t.Errorf("PragmaStatements() = %v", d.PragmaStatements())
			}
		})
	}
}
