package database

import (
	"fmt"

	"github.com/huandu/go-sqlbuilder"
)

// Dialect identifies the SQL engine behind a DB. The order store ships as a
// SQLite file but can be hosted on Postgres.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driverName string) Dialect {
	switch driverName {
	case "postgres", "pgx":
		return DialectPostgres
	default:
		return DialectSQLite
	}
}

func (d Dialect) Flavor() sqlbuilder.Flavor {
	if d == DialectPostgres {
		return sqlbuilder.PostgreSQL
	}
	return sqlbuilder.SQLite
}

// DistinctList aggregates the distinct non-null values of column within a group
// into a single comma-separated string.
func (d Dialect) DistinctList(column string) string {
	if d == DialectPostgres {
		return fmt.Sprintf("string_agg(DISTINCT %s, ',')", column)
	}
	return fmt.Sprintf("GROUP_CONCAT(DISTINCT %s)", column)
}

// LikeBuilder is the part of a sqlbuilder condition builder that writes LIKE
// comparisons.
type LikeBuilder interface {
	Like(field string, value interface{}) string
	ILike(field string, value interface{}) string
}

// CaseInsensitiveLike writes a LIKE comparison that ignores case. SQLite's
// LIKE already ignores ASCII case and has no ILIKE.
func (d Dialect) CaseInsensitiveLike(b LikeBuilder, field string, pattern any) string {
	if d == DialectPostgres {
		return b.ILike(field, pattern)
	}
	return b.Like(field, pattern)
}
