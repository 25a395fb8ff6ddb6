// Package testutil spins up a throwaway postgres container and seeds
// fixture rows for database-backed tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wlopz/codeflow-app/internal/database"
	"github.com/wlopz/codeflow-app/internal/models"
)

// SetupTestDB starts a postgres container, runs the real migrations and
// returns a connected handle. Skipped in -short mode since it needs a
// container runtime.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("codeflow_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// CreateTestUser inserts a user with a hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: string(hashed),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &user
}

// CreateTestQuestion inserts a question authored by the given user.
func CreateTestQuestion(t *testing.T, db *gorm.DB, authorID int, title string) *models.Question {
	t.Helper()

	question := models.Question{
		Title:    title,
		Body:     "How does the voting engine keep the counters consistent?",
		AuthorID: authorID,
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}
	return &question
}

// CreateTestAnswer inserts an answer on the given question.
func CreateTestAnswer(t *testing.T, db *gorm.DB, authorID, questionID int) *models.Answer {
	t.Helper()

	answer := models.Answer{
		Body:       "It applies the ledger write and the counter delta in one transaction.",
		AuthorID:   authorID,
		QuestionID: questionID,
	}
	if err := db.Create(&answer).Error; err != nil {
		t.Fatalf("Failed to create test answer: %v", err)
	}
	return &answer
}
