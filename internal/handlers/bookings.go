package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
)

// BookingHandler serves booking creation and cancellation for staff.
type BookingHandler struct {
	bookings *services.BookingService
}

func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// BookingRouter registers booking routes on the given router.
func BookingRouter(r chi.Router, bookings *services.BookingService) {
	handler := NewBookingHandler(bookings)

	r.Use(RequireStaff)
	r.Post("/create", handler.CreateBooking)
	r.Post("/delete", handler.DeleteBooking)
}

type CreateBookingRequest struct {
	RoomID          flexInt `json:"room_id"`
	StartTime       string  `json:"start_time"`
	DurationDisplay string  `json:"duration_display"`
}

type DeleteBookingRequest struct {
	BookingID flexInt `json:"booking_id"`
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := currentUser(r.Context())

	_, err := h.bookings.Create(r.Context(), actor, services.BookingRequest{
		RoomID:    int(req.RoomID),
		StartTime: req.StartTime,
		Duration:  req.DurationDisplay,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Đặt lịch thành công!")
}

func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	var req DeleteBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := currentUser(r.Context())

	if err := h.bookings.Delete(r.Context(), actor, int(req.BookingID)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Đã hủy lịch đặt thành công!")
}
