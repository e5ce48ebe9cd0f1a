// Package database handles database connections, migrations and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL, PostgreSQL or SQLite
// connections based on the application's configuration. Connections are opened with
// TranslateError so unique-constraint races surface as gorm.ErrDuplicatedKey.
//
// # Connect
//
// Connect establishes a connection and verifies it with a ping bounded by the
// configured timeout. SQLite connections are limited to a single open connection.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let the migrate command verify that the
// reconciliation tables carry the columns the pipeline relies on.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "order_lines", []string{"source_order_id"})
package database
