package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Database drivers accepted by New.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// openDialector maps the configured driver name onto a GORM dialector.
func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q (want %q or %q)",
			driver, DriverSQLite, DriverPostgres)
	}
}
