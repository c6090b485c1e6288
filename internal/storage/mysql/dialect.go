package mysql

import (
	"fmt"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ddl"
)

// Dialect renders MySQL DDL. The schema part of a dotted name is a database.
var Dialect = ddl.Dialect{
	Name:       "mysql",
	QuoteIdent: myIdent,
	QuoteTable: myFQN,
	MapType:    MapType,
	CreateTable: func(table, body string) string {
		return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n);", table, body)
	},
	CreateSchema: func(schema string) string {
		return "CREATE DATABASE IF NOT EXISTS " + myIdent(schema)
	},
}

// MapType maps a logical type to a MySQL type.
func MapType(kind string) string {
	switch kind {
	case ddl.TypeBigInt:
		return "BIGINT"
	case ddl.TypeDouble:
		return "DOUBLE"
	case ddl.TypeTimestamp:
		return "DATETIME(6)"
	default:
		return "TEXT"
	}
}
