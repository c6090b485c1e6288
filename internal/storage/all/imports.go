// Package all registers every built-in storage backend with the storage
// factory. It exists for its side effects only:
//
//	import _ "github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage/all"
//
// After the import, storage.New accepts the kinds "postgres", "mssql",
// "mysql" and "sqlite", and storage.EnsureTables can bootstrap tables on each.
// A binary that needs fewer drivers can blank-import the backends it wants
// directly instead.
package all

import (
	_ "github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage/mssql"
	_ "github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage/mysql"
	_ "github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage/postgres"
	_ "github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/storage/sqlite"
)
