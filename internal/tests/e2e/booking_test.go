//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/db"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/mail"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/server"
)

const (
	serverPort = 18080
)

var (
	baseURL = fmt.Sprintf("http://localhost:%d", serverPort)
	outbox  = &recordingSender{}
	codeRe  = regexp.MustCompile(`>(\d{6})<`)
)

type recordingSender struct {
	mu       sync.Mutex
	messages []mail.Message
}

func (r *recordingSender) Send(ctx context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingSender) codeFor(to string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].To != to {
			continue
		}
		if m := codeRe.FindStringSubmatch(r.messages[i].HTML); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("no code sent to %s", to)
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	root, err := repoRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to locate repo root: %v\n", err)
		os.Exit(1)
	}

	if err := dockerCompose(ctx, root, "up", "-d", "postgres"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start docker compose: %v\n", err)
		os.Exit(1)
	}

	setTestEnv()

	if err := waitForPostgres(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "postgres not ready: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	srv, err := startServer(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start server: %v\n", err)
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	if err := waitForHealth(ctx, baseURL+"/healthz"); err != nil {
		fmt.Fprintf(os.Stderr, "server not healthy: %v\n", err)
		_ = srv.Shutdown(context.Background())
		_ = dockerCompose(context.Background(), root, "down")
		os.Exit(1)
	}

	code := m.Run()

	_ = srv.Shutdown(context.Background())
	_ = dockerCompose(context.Background(), root, "down")
	os.Exit(code)
}

func TestTeacherBooksRoom(t *testing.T) {
	username := fmt.Sprintf("alice_%d", time.Now().UnixNano())
	email := username + "@example.com"
	client := newClient(t)

	expectStatus(t, client, "/api/register", map[string]string{
		"username": username,
		"password": "pw",
		"email":    email,
		"phone":    "0901",
		"role":     "teacher",
	}, "success")

	code, err := outbox.codeFor(email)
	if err != nil {
		t.Fatalf("capture code: %v", err)
	}
	expectStatus(t, client, "/api/verify-otp", map[string]string{"username": username, "otp": code}, "success")
	expectStatus(t, client, "/api/login", map[string]string{"username": username, "password": "pw"}, "success")

	before, err := bookingCount(username)
	if err != nil {
		t.Fatalf("count bookings: %v", err)
	}

	roomID, err := firstAvailableRoom()
	if err != nil {
		t.Fatalf("find room: %v", err)
	}
	expectStatus(t, client, "/api/bookings/create", map[string]any{
		"room_id":          roomID,
		"start_time":       "2026-01-05T08:00",
		"duration_display": "2",
	}, "success")

	after, err := bookingCount(username)
	if err != nil {
		t.Fatalf("count bookings: %v", err)
	}
	if after != before+1 {
		t.Fatalf("expected booking count %d, got %d", before+1, after)
	}

	resp, err := client.Get(baseURL + "/dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status %d", resp.StatusCode)
	}
	if resp.Request.URL.Path != "/dashboard" {
		t.Fatalf("expected to stay on dashboard, landed on %s", resp.Request.URL.Path)
	}

	status, err := post(client, "/api/rooms/create", map[string]string{"room_name": "Phòng X"})
	if err != nil {
		t.Fatalf("room create: %v", err)
	}
	if status != http.StatusForbidden {
		t.Fatalf("expected teacher room create to be forbidden, got %d", status)
	}
}

func TestAdminManagesRooms(t *testing.T) {
	client := newClient(t)
	expectStatus(t, client, "/api/login", map[string]string{"username": "admin", "password": "123"}, "success")

	name := fmt.Sprintf("Phòng E2E %d", time.Now().UnixNano())
	expectStatus(t, client, "/api/rooms/create", map[string]any{"room_name": name, "capacity": "20", "equipment": "TV"}, "success")
	expectStatus(t, client, "/api/rooms/create", map[string]any{"room_name": name, "capacity": 20}, "error")

	resp, err := client.Get(baseURL + "/logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	_ = resp.Body.Close()

	status, err := post(client, "/api/rooms/create", map[string]string{"room_name": name + " 2"})
	if err != nil {
		t.Fatalf("room create: %v", err)
	}
	if status != http.StatusForbidden {
		t.Fatalf("expected signed-out room create to be forbidden, got %d", status)
	}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func post(client *http.Client, path string, payload any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func expectStatus(t *testing.T, client *http.Client, path string, payload any, want string) {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		t.Fatalf("POST %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var parsed statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("POST %s: decode: %v", path, err)
	}
	if parsed.Status != want {
		t.Fatalf("POST %s: expected %q, got %+v", path, want, parsed)
	}
}

func openDB() (*sql.DB, error) {
	return sql.Open("postgres", db.DSN(config.LoadConfig()))
}

func bookingCount(username string) (int, error) {
	conn, err := openDB()
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err = conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings b JOIN users u ON u.id = b.user_id WHERE u.username = $1",
		username,
	).Scan(&count)
	return count, err
}

func firstAvailableRoom() (int, error) {
	conn, err := openDB()
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var id int
	err = conn.QueryRowContext(ctx, "SELECT id FROM classrooms WHERE status = 'Available' ORDER BY id LIMIT 1").Scan(&id)
	return id, err
}

func waitForPostgres(ctx context.Context) error {
	conn, err := openDB()
	if err != nil {
		return err
	}
	defer conn.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := conn.PingContext(pingCtx)
		cancel()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("postgres ping timeout: %w", err)
		case <-ticker.C:
		}
	}
}

func waitForHealth(ctx context.Context, url string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}
			return fmt.Errorf("health check failed with status")
		case <-ticker.C:
		}
	}
}

func setTestEnv() {
	_ = os.Setenv("SESSION_SECRET", "test-secret")
	_ = os.Setenv("SERVER_PORT", fmt.Sprintf("%d", serverPort))
	_ = os.Setenv("DB_HOST", "localhost")
	_ = os.Setenv("DB_PORT", "5432")
	_ = os.Setenv("DB_USER", "edumanager")
	_ = os.Setenv("DB_PASSWORD", "edumanager")
	_ = os.Setenv("DB_NAME", "edumanager")
	_ = os.Setenv("DB_SSL", "false")
	_ = os.Setenv("USE_MEMORY_STORE", "false")
	_ = os.Setenv("MQ_BACKEND", "none")
}

func startServer(ctx context.Context) (*server.Server, error) {
	cfg := config.LoadConfig()
	srv, err := server.New(ctx, cfg, server.WithMailSender(outbox))
	if err != nil {
		return nil, err
	}

	go func() {
		_ = srv.Start()
	}()

	return srv, nil
}

func dockerCompose(ctx context.Context, root string, args ...string) error {
	composeFile := filepath.Join(root, "development", "docker-compose.yml")
	baseArgs := append([]string{"compose", "-f", composeFile}, args...)
	cmd := exec.CommandContext(ctx, "docker", baseArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found")
		}
		dir = parent
	}
}
