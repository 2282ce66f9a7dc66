package controllers

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

// ----------------------------------------------------
// Room types (GET/POST /api/room-types, DELETE /api/room-types/:id)
// ----------------------------------------------------

func (ctrl *RoomController) GetRoomTypes(c *gin.Context) {
	types, err := ctrl.RoomSvc.ListRoomTypes()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, types)
}

func (ctrl *RoomController) CreateRoomType(c *gin.Context) {
	var rt models.RoomType
	if !bindJSON(c, &rt) {
		return
	}
	if err := ctrl.RoomSvc.CreateRoomType(&rt); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rt)
}

func (ctrl *RoomController) DeleteRoomType(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.RoomSvc.DeleteRoomType(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// ----------------------------------------------------
// Rooms of a tour (GET/POST /api/tours/:id/rooms)
// ----------------------------------------------------

func (ctrl *RoomController) GetRooms(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	rooms, err := ctrl.RoomSvc.ListRooms(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var room models.Room
	if !bindJSON(c, &room) {
		return
	}
	room.ID = 0
	room.TourID = tourID
	if err := ctrl.RoomSvc.SaveRoom(&room); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// BulkCreateRooms (POST /api/tours/:id/rooms/bulk)
func (ctrl *RoomController) BulkCreateRooms(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.BulkRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	rooms, err := ctrl.RoomSvc.BulkCreateRooms(tourID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, rooms)
}

// GetOverview (GET /api/tours/:id/rooms/overview)
func (ctrl *RoomController) GetOverview(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	overview, err := ctrl.RoomSvc.Overview(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, overview)
}

// ----------------------------------------------------
// Single room (PUT/DELETE /api/rooms/:id)
// ----------------------------------------------------

func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	room, err := ctrl.RoomSvc.GetRoom(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !bindJSON(c, room) {
		return
	}
	room.ID = id
	room.Occupants = nil
	if err := ctrl.RoomSvc.SaveRoom(room); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.RoomSvc.DeleteRoom(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

type assignRoomPayload struct {
	ParticipantID uint `json:"participant_id" binding:"required"`
}

// AssignParticipant (POST /api/rooms/:id/assign)
func (ctrl *RoomController) AssignParticipant(c *gin.Context) {
	roomID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload assignRoomPayload
	if !bindJSON(c, &payload) {
		return
	}
	if err := ctrl.RoomSvc.Assign(payload.ParticipantID, roomID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"room_id": roomID, "participant_id": payload.ParticipantID})
}

// UnassignParticipant (DELETE /api/participants/:id/room)
func (ctrl *RoomController) UnassignParticipant(c *gin.Context) {
	participantID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.RoomSvc.Unassign(participantID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"participant_id": participantID})
}
