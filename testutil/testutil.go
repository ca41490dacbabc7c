// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/danielhkuo/dcon-scoreboard/auth"
	"github.com/danielhkuo/dcon-scoreboard/cliparse"
	"github.com/danielhkuo/dcon-scoreboard/db"
	"github.com/danielhkuo/dcon-scoreboard/models"
)

// TestDBURLEnv names the variable that points tests at an existing database
// instead of a throwaway container.
const TestDBURLEnv = "TEST_DATABASE_URL"

var (
	containerOnce sync.Once
	containerURL  string
	containerErr  error
)

// testDBURL returns TEST_DATABASE_URL when set, otherwise starts one postgres
// container for the whole test binary.
func testDBURL(t *testing.T) string {
	t.Helper()

	if url := os.Getenv(TestDBURLEnv); url != "" {
		return url
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	containerOnce.Do(func() {
		ctx := context.Background()
		pg, err := postgres.RunContainer(ctx,
			testcontainers.WithImage("postgres:17-alpine"),
			postgres.WithDatabase("scoreboard_test"),
			postgres.WithUsername("scoreboard"),
			postgres.WithPassword("scoreboard"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			containerErr = err
			return
		}
		containerURL, containerErr = pg.ConnectionString(ctx, "sslmode=disable")
	})
	if containerErr != nil {
		t.Fatalf("Failed to start postgres container: %v", containerErr)
	}
	return containerURL
}

// SetupTestDB returns a connection to an empty database with all migrations applied
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("postgres", testDBURL(t))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := waitReady(conn); err != nil {
		t.Fatalf("Test database not reachable: %v", err)
	}

	// Clean up everything, including goose's version table
	if _, err := conn.Exec(`DROP SCHEMA public CASCADE; CREATE SCHEMA public;`); err != nil {
		t.Fatalf("Failed to clean database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}

	return conn
}

func waitReady(conn *sql.DB) error {
	var err error
	for i := 0; i < 20; i++ {
		if err = conn.Ping(); err == nil {
			return nil
		}
		time.Sleep(250 * time.Millisecond)
	}
	return err
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            8000,
		Env:             "test",
		LogLevel:        "error",
		JWTSecret:       "test-jwt-secret",
		JWTIssuer:       "dcon-scoreboard-test",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		EventTimezone:   "Africa/Cairo",
		EventStartDate:  "2026-02-10",
	}
}

// CreateTestChurch inserts a church and returns its ID
func CreateTestChurch(t *testing.T, conn *sql.DB, name, slug string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO church (name, slug, description)
		VALUES ($1, $2, '')
		RETURNING id
	`, name, slug).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test church: %v", err)
	}
	return id
}

// CreateTestMember inserts a member with a starting score and returns its ID
func CreateTestMember(t *testing.T, conn *sql.DB, churchID int64, name string, score int64) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO member (name, church_id, score)
		VALUES ($1, $2, $3)
		RETURNING id
	`, name, churchID, score).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}
	return id
}

// CreateTestUser inserts an account with the given role. The password is
// always "correct-horse-42".
func CreateTestUser(t *testing.T, conn *sql.DB, username string, role models.Role) models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	u := models.User{Username: username, Email: username + "@example.com", Role: role, PasswordHash: hash}
	err = conn.QueryRow(`
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date_joined
	`, u.Username, u.Email, u.PasswordHash, string(u.Role)).Scan(&u.ID, &u.DateJoined)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return u
}

// TestPassword is the password of every account made by CreateTestUser
const TestPassword = "correct-horse-42"

// IssueTestTokens signs a token pair for u with the test config's secret
func IssueTestTokens(t *testing.T, cfg cliparse.Config, u models.User) auth.TokenPair {
	t.Helper()

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	pair, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("Failed to issue tokens: %v", err)
	}
	return pair
}

// AuthHeader returns request headers carrying an access token for u
func AuthHeader(t *testing.T, cfg cliparse.Config, u models.User) map[string]string {
	t.Helper()
	return map[string]string{"Authorization": "Bearer " + IssueTestTokens(t, cfg, u).Access}
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
