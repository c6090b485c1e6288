package sqlite

import (
	"fmt"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ddl"
)

// Dialect renders SQLite DDL. Schemas do not exist; dotted names become a
// single quoted table name.
var Dialect = ddl.Dialect{
	Name:       "sqlite",
	QuoteIdent: sqlIdent,
	QuoteTable: sqlTable,
	MapType:    MapType,
	CreateTable: func(table, body string) string {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", table, body)
	},
}

// MapType maps a logical type to a SQLite column affinity. Timestamps are
// TEXT in TimeLayout.
func MapType(kind string) string {
	switch kind {
	case ddl.TypeBigInt:
		return "INTEGER"
	case ddl.TypeDouble:
		return "REAL"
	default:
		return "TEXT"
	}
}
