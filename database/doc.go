// Package database opens and manages the SQLite database behind the
// account directory. It wraps GORM with connection retry, pool settings,
// a zerolog-backed query logger and lifecycle hooks, and applies the
// versioned SQL migrations in database/migration on start.
//
// Unique-constraint violations surface as gorm.ErrDuplicatedKey because
// the connection is opened with error translation enabled.
package database
