// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the admin user (admin_user) already exists.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"trainsafe/backend/internal/config"
	"trainsafe/backend/internal/db"
	identitydomain "trainsafe/backend/internal/identity/domain"
	identityrepo "trainsafe/backend/internal/identity/repository"
	"trainsafe/backend/internal/security"
)

const adminUsername = "admin_user"

type seedUser struct {
	username string
	password string
	role     identitydomain.Role
	phone    string
}

var seedUsers = []seedUser{
	{username: adminUsername, password: "adminpass", role: identitydomain.RoleAdmin, phone: "+15550100001"},
	{username: "editor_user", password: "editorpass", role: identitydomain.RoleEditor, phone: "+15550100002"},
	{username: "viewer_user", password: "viewerpass", role: identitydomain.RoleViewer, phone: "+15550100003"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	identities := identityrepo.NewPostgresRepository(conn)
	existing, err := identities.GetByUsername(ctx, adminUsername)
	if err != nil {
		log.Fatalf("check admin user: %v", err)
	}
	if existing != nil {
		log.Println("seed data present, nothing to do")
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	for _, u := range seedUsers {
		hash, err := hasher.Hash([]byte(u.password))
		if err != nil {
			log.Fatalf("hash password for %s: %v", u.username, err)
		}
		ident := &identitydomain.Identity{
			ID:           uuid.New().String(),
			Username:     u.username,
			PasswordHash: hash,
			Role:         u.role,
			Phone:        u.phone,
			CreatedAt:    time.Now().UTC(),
		}
		if err := identities.Create(ctx, ident); err != nil {
			log.Fatalf("create %s: %v", u.username, err)
		}
		log.Printf("created %s (%s)", u.username, u.role)
	}

	rows := [][]any{
		{"LP001002", "Male", "No", "Graduate", 5849, 130, "Y"},
		{"LP001003", "Male", "Yes", "Graduate", 4583, 128, "N"},
		{"LP001005", "Male", "Yes", "Graduate", 3000, 66, "Y"},
		{"LP001006", "Male", "Yes", "Not Graduate", 2583, 120, "Y"},
		{"LP001008", "Male", "No", "Graduate", 6000, 141, "Y"},
	}
	const insertRow = `INSERT INTO train_data
		(loan_id, gender, married, education, applicant_income, loan_amount, loan_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (loan_id) DO NOTHING`
	for _, r := range rows {
		if _, err := conn.ExecContext(ctx, insertRow, r...); err != nil {
			log.Fatalf("insert train_data row %v: %v", r[0], err)
		}
	}
	log.Printf("seeded %d train_data rows", len(rows))
}
