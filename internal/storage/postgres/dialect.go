package postgres

import (
	"fmt"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ddl"
)

// Dialect renders Postgres DDL.
var Dialect = ddl.Dialect{
	Name:       "postgres",
	QuoteIdent: pgIdent,
	QuoteTable: pgFQN,
	MapType:    MapType,
	CreateTable: func(table, body string) string {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", table, body)
	},
	CreateSchema: func(schema string) string {
		return "CREATE SCHEMA IF NOT EXISTS " + pgIdent(schema)
	},
}

// MapType maps a logical type to a Postgres type. Money and rate columns are
// DOUBLE PRECISION; the source files carry IEEE doubles.
func MapType(kind string) string {
	switch kind {
	case ddl.TypeBigInt:
		return "BIGINT"
	case ddl.TypeDouble:
		return "DOUBLE PRECISION"
	case ddl.TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
