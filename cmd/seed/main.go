package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"notesapi/config"
	"notesapi/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@example.com"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, uuid.NewString(), email, name, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	notes := []struct {
		title   string
		content string
	}{
		{"Project Plan", "Outline the milestones for the notes backend."},
		{"Groceries", "Milk, eggs, coffee."},
		{"Reading List", "Go in practice; Designing Data-Intensive Applications."},
	}
	for _, n := range notes {
		if _, err := db.Exec(`
			INSERT INTO notes (id, owner_id, title, content)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING
		`, uuid.NewString(), id, n.title, n.content); err != nil {
			log.Fatalf("failed to seed note %q: %v", n.title, err)
		}
	}
	fmt.Printf("seeded %d notes for %s\n", len(notes), email)
}
