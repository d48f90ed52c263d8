package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-worktime/config"
)

// seed inserts a demo user with two closed work entries from yesterday.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("failed to begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	userID := uuid.NewString()
	name := "Demo User"
	if _, err := tx.Exec(`INSERT INTO users (id, name) VALUES ($1, $2)`, userID, name); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s name=%s\n", userID, name)

	loc := cfg.Location()
	y := time.Now().In(loc).AddDate(0, 0, -1)
	day := time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, loc)
	slots := [][2]time.Duration{
		{9 * time.Hour, 12 * time.Hour},
		{13 * time.Hour, 17*time.Hour + 30*time.Minute},
	}
	for _, s := range slots {
		id := uuid.NewString()
		start, end := day.Add(s[0]), day.Add(s[1])
		if _, err := tx.Exec(`
			INSERT INTO work_entries (id, user_id, start_date, end_date)
			VALUES ($1, $2, $3, $4)
		`, id, userID, start, end); err != nil {
			log.Fatalf("failed to seed work entry: %v", err)
		}
		fmt.Printf("seeded work entry: id=%s %s -> %s\n", id, start.Format(time.DateTime), end.Format(time.DateTime))
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("failed to commit seed: %v", err)
	}
}
