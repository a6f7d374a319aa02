package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdminEmail is the development admin account created by Seed.
const SeedAdminEmail = "admin@contentadmin.local"

// Seed populates the database with initial development data: a default
// admin user and a small sample tree. Each part is skipped when its table
// already has rows.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedContent(db)
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, 'admin')
	`, SeedAdminEmail, string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", SeedAdminEmail,
		"password", "admin1234",
	)
	return nil
}

func seedContent(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM content").Scan(&count); err != nil {
		return fmt.Errorf("seed check content: %w", err)
	}
	if count > 0 {
		return nil
	}

	var bookID int64
	err := db.QueryRow(`
		INSERT INTO content (parent_id, type, sequence) VALUES (NULL, 'book', 0)
		RETURNING id
	`).Scan(&bookID)
	if err != nil {
		return fmt.Errorf("seed insert book: %w", err)
	}

	for i := 0; i < 2; i++ {
		var chapterID int64
		err := db.QueryRow(`
			INSERT INTO content (parent_id, type, sequence) VALUES ($1, 'chapter', $2)
			RETURNING id
		`, bookID, i).Scan(&chapterID)
		if err != nil {
			return fmt.Errorf("seed insert chapter: %w", err)
		}

		_, err = db.Exec(`
			INSERT INTO content_translation (content_id, language_code, title)
			VALUES ($1, 'en', $2)
		`, chapterID, fmt.Sprintf("Chapter %d", i+1))
		if err != nil {
			return fmt.Errorf("seed insert translation: %w", err)
		}
	}

	slog.Info("database seeded with sample content tree", "root_id", bookID)
	return nil
}
