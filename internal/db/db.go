package db

import "database/sql"

// DB wraps the raw connection so callers depend on this package
// rather than database/sql directly.
type DB struct {
	*sql.DB
}
