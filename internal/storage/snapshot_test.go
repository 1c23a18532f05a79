package storage

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/config"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/store"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

type memoryBackend struct {
	ensured bool
	objects map[string]Object
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{objects: map[string]Object{}}
}

func (m *memoryBackend) EnsureBucket(ctx context.Context) error {
	m.ensured = true
	return nil
}

func (m *memoryBackend) Put(ctx context.Context, obj Object) error {
	m.objects[obj.Key] = obj
	return nil
}

func TestExporterWritesSnapshot(t *testing.T) {
	ctx := context.Background()
	db := store.NewMemoryStore()
	code := "123456"
	if _, err := db.Users.Create(ctx, types.User{Username: "alice", PasswordHash: "hash", Email: "a@example.com", Role: types.RoleTeacher, VerificationCode: &code}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := db.Classrooms.Create(ctx, types.Classroom{RoomName: "A101", Capacity: 40, Status: types.RoomAvailable}); err != nil {
		t.Fatalf("create room: %v", err)
	}

	backend := newMemoryBackend()
	exporter := NewExporter(backend, "/snapshots/", db.Users, db.Classrooms, db.Bookings)
	exporter.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	key, err := exporter.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if key != "snapshots/snapshot-20260102T030405Z.json" {
		t.Fatalf("unexpected key %q", key)
	}
	if !backend.ensured {
		t.Fatalf("expected bucket to be ensured")
	}
	obj := backend.objects[key]
	if obj.ContentType != "application/json" {
		t.Fatalf("unexpected content type %q", obj.ContentType)
	}
	if obj.ContentDisposition != `attachment; filename="snapshot-20260102T030405Z.json"` {
		t.Fatalf("unexpected content disposition %q", obj.ContentDisposition)
	}
	if obj.Metadata["generated-at"] != "2026-01-02T03:04:05Z" || obj.Metadata["users"] != "1" || obj.Metadata["bookings"] != "0" {
		t.Fatalf("unexpected metadata %v", obj.Metadata)
	}

	raw := string(obj.Body)
	if strings.Contains(raw, "hash") || strings.Contains(raw, code) {
		t.Fatalf("snapshot leaks secrets: %s", raw)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(obj.Body, &snapshot); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snapshot.Users) != 1 || len(snapshot.Classrooms) != 1 || len(snapshot.Bookings) != 0 {
		t.Fatalf("unexpected snapshot %+v", snapshot)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), config.StorageConfig{Backend: "s3"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, err := Open(context.Background(), config.StorageConfig{Backend: "minio"}); err == nil {
		t.Fatalf("expected error for missing minio credentials")
	}
	if _, err := Open(context.Background(), config.StorageConfig{Backend: "gcs"}); err == nil {
		t.Fatalf("expected error for missing gcs bucket")
	}
}

func TestMinioBackendNamesMissingSettings(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{
		Backend: "minio",
		Minio:   config.MinioConfig{Endpoint: "localhost:9000", Bucket: "edumanager"},
	})
	if err == nil {
		t.Fatalf("expected missing credentials to fail")
	}
	if !strings.Contains(err.Error(), "MINIO_ACCESS_KEY, MINIO_SECRET_KEY") {
		t.Fatalf("expected both missing keys to be named, got %v", err)
	}
}
