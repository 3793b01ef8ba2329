package db

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the database for the given driver, verifies the connection
// and makes sure the schema exists. The caller owns the returned handle.
func Connect(driver, dsn string) (*sql.DB, error) {
	database, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := createSchema(database, driver); err != nil {
		database.Close()
		return nil, err
	}

	return database, nil
}

func createSchema(database *sql.DB, driver string) error {
	for _, stmt := range schemaFor(driver) {
		if _, err := database.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Autoincrement syntax is the only part that differs between the production
// driver (mysql) and the dev/test driver (sqlite3).
func schemaFor(driver string) []string {
	idCol := "INT AUTO_INCREMENT PRIMARY KEY"
	if driver == "sqlite3" {
		idCol = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	return []string{
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS users (
		id %s,
		username VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL
	);`, idCol),
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS categories (
		id %s,
		user_id INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		color VARCHAR(32) NOT NULL DEFAULT '',
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);`, idCol),
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS notes (
		id %s,
		user_id INT NOT NULL,
		category_id INT,
		title VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		tags VARCHAR(512) NOT NULL DEFAULT '',
		is_pinned BOOLEAN NOT NULL DEFAULT FALSE,
		is_archived BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL
	);`, idCol),
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS password_reset_tokens (
		id %s,
		user_id INT NOT NULL,
		token VARCHAR(64) UNIQUE NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		is_used BOOLEAN NOT NULL DEFAULT FALSE,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);`, idCol),
	}
}
