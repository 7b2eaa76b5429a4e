// Package all registers every built-in storage backend with the storage
// factory. The pipeline config selects which one to use at runtime, so the
// binaries blank-import this package to compile in support for all of them.
package all

import (
	_ "sparkify/internal/storage/mysql"
	_ "sparkify/internal/storage/postgres"
	_ "sparkify/internal/storage/sqlite"
)
