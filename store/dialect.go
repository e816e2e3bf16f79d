package store

import (
	"strconv"
	"strings"
)

// Dialect carries the per-driver schema.
type Dialect interface {
	Name() string
	Schema() string
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }
func (sqliteDialect) Schema() string {
	return `CREATE TABLE IF NOT EXISTS hardware (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	provider TEXT NOT NULL,
	name     TEXT NOT NULL,
	UNIQUE (provider, name)
)`
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }
func (postgresDialect) Schema() string {
	return `CREATE TABLE IF NOT EXISTS hardware (
	id       BIGSERIAL PRIMARY KEY,
	provider TEXT NOT NULL,
	name     TEXT NOT NULL,
	UNIQUE (provider, name)
)`
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return "mysql" }
func (mysqlDialect) Schema() string {
	return `CREATE TABLE IF NOT EXISTS hardware (
	id       BIGINT AUTO_INCREMENT PRIMARY KEY,
	provider VARCHAR(255) NOT NULL,
	name     VARCHAR(255) NOT NULL,
	UNIQUE KEY hardware_provider_name (provider, name)
)`
}

// Rebind converts ? placeholders to $1, $2, ... outside of quoted strings.
func Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
