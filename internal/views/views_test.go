package views

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

func TestRenderPages(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	admin := &types.User{ID: 1, Username: "admin", FullName: "Quản Trị Viên", Role: types.RoleAdmin}
	rooms := []types.Classroom{{ID: 1, RoomName: "Phòng A101", Capacity: 40, Status: types.RoomAvailable}}
	bookings := []services.BookingView{{ID: 3, RoomName: types.UnknownRoom, UserID: 1, BookerName: "<b>x</b>", StartTime: "08:00"}}

	cases := []struct {
		name string
		page Page
		want string
	}{
		{"login", Page{Title: "Đăng nhập"}, "/api/login"},
		{"register", Page{Title: "Đăng ký"}, "/api/register"},
		{"verify", Page{Title: "Xác thực", Data: "alice"}, `value="alice"`},
		{"forgotpw", Page{Title: "Quên mật khẩu"}, "/api/forgot/reset"},
		{"index", Page{Title: "Tổng quan", User: admin, Data: services.Dashboard{TotalRooms: 1, Recent: bookings}}, types.UnknownRoom},
		{"room_management", Page{Title: "Phòng", User: admin, Data: rooms}, "/api/rooms/create"},
		{"booking_scheduler", Page{Title: "Đặt lịch", User: admin, Data: services.Scheduler{Classrooms: rooms, Bookings: bookings}}, "/api/bookings/delete"},
		{"user_management", Page{Title: "Người dùng", User: admin, Data: []types.User{*admin}}, "/api/users/update"},
		{"profile", Page{Title: "Hồ sơ", User: admin, Data: services.Profile{User: *admin}}, "/api/profile/change-password"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		if err := renderer.Render(rec, http.StatusOK, tc.name, tc.page); err != nil {
			t.Fatalf("render %s: %v", tc.name, err)
		}
		body := rec.Body.String()
		if !strings.Contains(body, tc.want) {
			t.Fatalf("%s: expected %q in output", tc.name, tc.want)
		}
		if strings.Contains(body, "<b>x</b>") {
			t.Fatalf("%s: booker name must be escaped", tc.name)
		}
	}
}

func TestRenderUnknownPage(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Has("missing") {
		t.Fatalf("unexpected page")
	}
	if err := renderer.Render(httptest.NewRecorder(), http.StatusOK, "missing", Page{}); err == nil {
		t.Fatalf("expected error for unknown page")
	}
}
