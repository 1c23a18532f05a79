package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/internal/services"
	"github.com/vuongdotheanh/Website-EduManager7.github.io/types"
)

// RoomHandler serves classroom mutations. Every route is admin-only.
type RoomHandler struct {
	rooms *services.RoomService
}

func NewRoomHandler(rooms *services.RoomService) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// RoomRouter registers room routes on the given router.
func RoomRouter(r chi.Router, rooms *services.RoomService) {
	handler := NewRoomHandler(rooms)

	r.Use(RequireAdmin)
	r.Post("/create", handler.CreateRoom)
	r.Post("/update", handler.UpdateRoom)
	r.Post("/delete", handler.DeleteRoom)
}

type CreateRoomRequest struct {
	RoomName  string  `json:"room_name"`
	Capacity  flexInt `json:"capacity"`
	Equipment string  `json:"equipment"`
	Status    string  `json:"status"`
}

type UpdateRoomRequest struct {
	RoomID    flexInt  `json:"room_id"`
	RoomName  *string  `json:"room_name"`
	Capacity  *flexInt `json:"capacity"`
	Equipment *string  `json:"equipment"`
	Status    *string  `json:"status"`
}

type RoomIDRequest struct {
	RoomID flexInt `json:"room_id"`
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := currentUser(r.Context())

	_, err := h.rooms.Create(r.Context(), actor.ID, types.Classroom{
		RoomName:  req.RoomName,
		Capacity:  int(req.Capacity),
		Equipment: req.Equipment,
		Status:    req.Status,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Đã thêm phòng mới thành công!")
}

func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	var req UpdateRoomRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := currentUser(r.Context())

	patch := services.RoomPatch{
		RoomName:  req.RoomName,
		Equipment: req.Equipment,
		Status:    req.Status,
	}
	if req.Capacity != nil {
		capacity := int(*req.Capacity)
		patch.Capacity = &capacity
	}

	if _, err := h.rooms.Update(r.Context(), actor.ID, int(req.RoomID), patch); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Cập nhật thành công!")
}

func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	var req RoomIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	actor, _ := currentUser(r.Context())

	if err := h.rooms.Delete(r.Context(), actor.ID, int(req.RoomID)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, "Đã xóa phòng!")
}
