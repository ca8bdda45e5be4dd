package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Интеграционные тесты гоняются против живой базы с применёнными миграциями.
// Без TEST_DATABASE_URL пакет тестируется вхолостую.
func openTestAdminStorage(t *testing.T) *GormAdminStorage {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`TRUNCATE admins RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	gdb, err := gorm.Open(gormpg.New(gormpg.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGormAdminStorage(gdb, logger)
}

func TestGetByUsernameNotFound(t *testing.T) {
	s := openTestAdminStorage(t)

	admin, err := s.GetByUsername(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if admin != nil {
		t.Error("unknown username must return (nil, nil)")
	}
}

func TestUpdatePasswordUnknownAdmin(t *testing.T) {
	s := openTestAdminStorage(t)

	if err := s.UpdatePassword(context.Background(), "ghost", "hash"); err == nil {
		t.Error("updating the password of an unknown admin must fail")
	}
}

func TestCreateAndUpdatePassword(t *testing.T) {
	s := openTestAdminStorage(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "admin", "hash-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == 0 {
		t.Fatal("Create must return the new id")
	}

	if err := s.UpdatePassword(ctx, "admin", "hash-2"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	admin, err := s.GetByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if admin == nil || admin.PasswordHash != "hash-2" {
		t.Errorf("stored hash = %+v, want hash-2", admin)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
