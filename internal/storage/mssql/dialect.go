package mssql

import (
	"fmt"
	"strings"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ddl"
)

// Dialect renders SQL Server DDL. SQL Server has no CREATE TABLE IF NOT
// EXISTS, so creation is guarded by OBJECT_ID / SCHEMA_ID checks.
var Dialect = ddl.Dialect{
	Name:       "mssql",
	QuoteIdent: msIdent,
	QuoteTable: msFQN,
	MapType:    MapType,
	CreateTable: func(table, body string) string {
		return fmt.Sprintf(
			"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n  %s\n  );\nEND;",
			strings.ReplaceAll(table, "'", "''"), table, body)
	},
	CreateSchema: func(schema string) string {
		lit := strings.ReplaceAll(schema, "'", "''")
		return fmt.Sprintf("IF SCHEMA_ID(N'%s') IS NULL EXEC(N'CREATE SCHEMA %s');",
			lit, strings.ReplaceAll(msIdent(schema), "'", "''"))
	},
}

// MapType maps a logical type to a SQL Server type.
func MapType(kind string) string {
	switch kind {
	case ddl.TypeBigInt:
		return "BIGINT"
	case ddl.TypeDouble:
		return "FLOAT"
	case ddl.TypeTimestamp:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}
