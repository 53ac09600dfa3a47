package sqlengine

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration

	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// Dialect names the SQL flavor the engine generates statements for.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite3"
)

// ParseDialect maps a configuration value to a Dialect.
// "sqlite" is accepted as an alias for "sqlite3".
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", string(DialectPostgres), "postgresql":
		return DialectPostgres, nil
	case string(DialectMySQL):
		return DialectMySQL, nil
	case string(DialectSQLite), "sqlite":
		return DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", relstore.ErrUnsupportedDialect, name)
	}
}

func (d Dialect) isValid() bool {
	switch d {
	case DialectPostgres, DialectMySQL, DialectSQLite:
		return true
	default:
		return false
	}
}

func (d Dialect) builder() goqu.DialectWrapper {
	return goqu.Dialect(string(d))
}

// positionFunc returns the name of the substring position function, 1-based, 0 when not found.
func (d Dialect) positionFunc() string {
	if d == DialectPostgres {
		return "STRPOS"
	}

	return "INSTR"
}

func (d Dialect) quote(identifier string) string {
	if d == DialectMySQL {
		return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
	}

	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
