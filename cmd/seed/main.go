package main

import (
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/SubashG45/Task-Management/config"
	"github.com/SubashG45/Task-Management/pkg/helpers"
)

// Seeds a demo account with a handful of tasks for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@example.com"
	hash, err := helpers.HashPassword("password123")
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, email, "demo", hash).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	now := time.Now()
	tomorrow := now.Add(24 * time.Hour)
	nextWeek := now.Add(7 * 24 * time.Hour)

	tasks := []struct {
		title, description, priority, status string
		due                                  *time.Time
	}{
		{"Pay rent", "Transfer before the 1st", "high", "pending", &tomorrow},
		{"Write weekly report", "", "medium", "pending", &nextWeek},
		{"Water the plants", "Balcony and kitchen", "low", "completed", nil},
	}

	for _, t := range tasks {
		_, err := db.Exec(`
			INSERT INTO tasks (user_id, title, description, priority, status, completed, due_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, userID, t.title, t.description, t.priority, t.status, t.status == "completed", t.due)
		if err != nil {
			log.Fatalf("failed to seed task %q: %v", t.title, err)
		}
	}

	log.Printf("seeded user %s (%s) with %d tasks", email, userID, len(tasks))
}
