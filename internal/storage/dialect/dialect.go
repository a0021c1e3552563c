// Package dialect provides the SQL differences the profile and event stores
// depend on.
package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect represents a SQL database dialect.
type Dialect interface {
	// Name returns the dialect name (e.g., "sqlite", "postgres", "mysql")
	Name() string

	// DriverName returns the database/sql driver name to use
	DriverName() string

	// Rebind converts ? placeholders to the dialect's format.
	Rebind(query string) string

	// KeyType returns the SQL type for primary-key text columns
	KeyType() string

	// TextType returns the SQL type for large text fields
	TextType() string

	// SerialKey returns the column definition of an auto-increment primary key
	SerialKey() string

	// SupportsReturning reports whether INSERT ... RETURNING is available
	SupportsReturning() bool

	// UpsertClause returns the ON CONFLICT/ON DUPLICATE KEY clause for upserts
	UpsertClause(conflictColumn string, updateColumns []string) string

	// PragmaStatements returns dialect-specific initialization statements
	PragmaStatements() []string
}

// DialectType represents supported database types
type DialectType string

const (
	SQLite   DialectType = "sqlite"
	Postgres DialectType = "postgres"
	MySQL    DialectType = "mysql"
)

type upsertStyle int

const (
	onConflictCompact upsertStyle = iota // sqlite: col=excluded.col
	onConflictSpaced                     // postgres: col = EXCLUDED.col
	onDuplicateKey                       // mysql: col = VALUES(col)
)

type sqlDialect struct {
	name      string
	driver    string
	numbered  bool // $1, $2 placeholders
	keyType   string
	textType  string
	serialKey string
	returning bool
	upsert    upsertStyle
	pragmas   []string
}

var dialects = map[DialectType]*sqlDialect{
	SQLite: {
		name:      "sqlite",
		driver:    "sqlite",
		keyType:   "TEXT",
		textType:  "TEXT",
		serialKey: "INTEGER PRIMARY KEY AUTOINCREMENT",
		returning: true,
		upsert:    onConflictCompact,
		pragmas:   []string{"PRAGMA journal_mode=WAL", "PRAGMA synchronous=NORMAL"},
	},
	Postgres: {
		name:      "postgres",
		driver:    "pgx",
		numbered:  true,
		keyType:   "TEXT",
		textType:  "TEXT",
		serialKey: "BIGSERIAL PRIMARY KEY",
		returning: true,
		upsert:    onConflictSpaced,
	},
	MySQL: {
		name:   "mysql",
		driver: "mysql",
		// MySQL cannot index unbounded TEXT.
		keyType:   "VARCHAR(255)",
		textType:  "LONGTEXT",
		serialKey: "BIGINT AUTO_INCREMENT PRIMARY KEY",
		upsert:    onDuplicateKey,
	},
}

// New creates a new Dialect based on the dialect type
func New(dialectType DialectType) (Dialect, error) {
	return FromDriverName(string(dialectType))
}

// FromDriverName returns the dialect for a given driver name
func FromDriverName(driverName string) (Dialect, error) {
	switch strings.ToLower(driverName) {
	case "sqlite", "sqlite3":
		return dialects[SQLite], nil
	case "postgres", "pgx":
		return dialects[Postgres], nil
	case "mysql":
		return dialects[MySQL], nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driverName)
	}
}

func (d *sqlDialect) Name() string               { return d.name }
func (d *sqlDialect) DriverName() string         { return d.driver }
func (d *sqlDialect) KeyType() string            { return d.keyType }
func (d *sqlDialect) TextType() string           { return d.textType }
func (d *sqlDialect) SerialKey() string          { return d.serialKey }
func (d *sqlDialect) SupportsReturning() bool    { return d.returning }
func (d *sqlDialect) PragmaStatements() []string { return d.pragmas }

func (d *sqlDialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, ch := range query {
		if ch != '?' {
			b.WriteRune(ch)
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

func (d *sqlDialect) UpsertClause(conflictColumn string, updateColumns []string) string {
	var format, prefix string
	switch d.upsert {
	case onConflictCompact:
		if len(updateColumns) == 0 {
			return fmt.Sprintf("ON CONFLICT(%s) DO NOTHING", conflictColumn)
		}
		prefix, format = fmt.Sprintf("ON CONFLICT(%s) DO UPDATE SET ", conflictColumn), "%[1]s=excluded.%[1]s"
	case onConflictSpaced:
		if len(updateColumns) == 0 {
			return fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", conflictColumn)
		}
		prefix, format = fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET ", conflictColumn), "%[1]s = EXCLUDED.%[1]s"
	default:
		// MySQL has no DO NOTHING; a self-assignment keeps the row unchanged.
		if len(updateColumns) == 0 {
			return fmt.Sprintf("ON DUPLICATE KEY UPDATE %[1]s = %[1]s", conflictColumn)
		}
		prefix, format = "ON DUPLICATE KEY UPDATE ", "%[1]s = VALUES(%[1]s)"
	}

	updates := make([]string, len(updateColumns))
	for i, col := range updateColumns {
		updates[i] = fmt.Sprintf(format, col)
	}
	return prefix + strings.Join(updates, ", ")
}
