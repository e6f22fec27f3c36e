// Package all wires the built-in storage backends into the storage factory.
//
// It exists purely for side effects: blank-importing it runs the init
// functions of each concrete backend, which register their factories with
// the storage package. Importing this package makes the following storage
// kinds available at runtime:
//
//   - "sqlite"   (flightdw/internal/storage/sqlite)
//   - "postgres" (flightdw/internal/storage/postgres)
//   - "mssql"    (flightdw/internal/storage/mssql)
package all

import (
	_ "flightdw/internal/storage/mssql"
	_ "flightdw/internal/storage/postgres"
	_ "flightdw/internal/storage/sqlite"
)
