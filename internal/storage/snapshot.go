package storage

import (
	"context"
	"encoding/json"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

type UserLister interface {
	List(ctx context.Context) ([]types.User, error)
}

type ClassroomLister interface {
	List(ctx context.Context) ([]types.Classroom, error)
}

type BookingLister interface {
	List(ctx context.Context) ([]types.Booking, error)
}

// Snapshot is a point-in-time copy of every table. Password hashes and
// pending codes are excluded by the types' JSON encoding.
type Snapshot struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Users       []types.User      `json:"users"`
	Classrooms  []types.Classroom `json:"classrooms"`
	Bookings    []types.Booking   `json:"bookings"`
}

// Exporter writes snapshots as JSON objects under a key prefix.
type Exporter struct {
	backend  ObjectStorage
	prefix   string
	users    UserLister
	rooms    ClassroomLister
	bookings BookingLister
	now      func() time.Time
}

func NewExporter(backend ObjectStorage, prefix string, users UserLister, rooms ClassroomLister, bookings BookingLister) *Exporter {
	return &Exporter{
		backend:  backend,
		prefix:   strings.Trim(prefix, "/"),
		users:    users,
		rooms:    rooms,
		bookings: bookings,
		now:      time.Now,
	}
}

// Collect reads every table into a snapshot.
func (e *Exporter) Collect(ctx context.Context) (Snapshot, error) {
	users, err := e.users.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	rooms, err := e.rooms.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	bookings, err := e.bookings.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		GeneratedAt: e.now().UTC(),
		Users:       users,
		Classrooms:  rooms,
		Bookings:    bookings,
	}, nil
}

// Export uploads a fresh snapshot and returns its object key.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	snapshot, err := e.Collect(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}

	if err := e.backend.EnsureBucket(ctx); err != nil {
		return "", err
	}

	name := "snapshot-" + snapshot.GeneratedAt.Format("20060102T150405Z") + ".json"
	key := path.Join(e.prefix, name)
	err = e.backend.Put(ctx, Object{
		Key:                key,
		Body:               data,
		ContentType:        "application/json",
		ContentDisposition: `attachment; filename="` + name + `"`,
		Metadata: map[string]string{
			"generated-at": snapshot.GeneratedAt.Format(time.RFC3339),
			"users":        strconv.Itoa(len(snapshot.Users)),
			"classrooms":   strconv.Itoa(len(snapshot.Classrooms)),
			"bookings":     strconv.Itoa(len(snapshot.Bookings)),
		},
	})
	if err != nil {
		return "", err
	}
	return key, nil
}
