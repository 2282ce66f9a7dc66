package controllers

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type TeeTimeController struct {
	TeeTimeSvc *services.TeeTimeService
}

func NewTeeTimeController(svc *services.TeeTimeService) *TeeTimeController {
	return &TeeTimeController{TeeTimeSvc: svc}
}

// GetTeeTimes (GET /api/tours/:id/tee-times?date=YYYY-MM-DD)
func (ctrl *TeeTimeController) GetTeeTimes(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := ctrl.TeeTimeSvc.List(tourID, c.Query("date"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *TeeTimeController) CreateTeeTime(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var tt models.TeeTime
	if !bindJSON(c, &tt) {
		return
	}
	tt.ID = 0
	tt.TourID = tourID
	tt.Assignments = nil
	if err := ctrl.TeeTimeSvc.Save(&tt); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, tt)
}

// BulkCreateTeeTimes (POST /api/tours/:id/tee-times/bulk)
func (ctrl *TeeTimeController) BulkCreateTeeTimes(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.BulkTeeTimeRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := ctrl.TeeTimeSvc.BulkCreate(tourID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, out)
}

func (ctrl *TeeTimeController) UpdateTeeTime(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tt, err := ctrl.TeeTimeSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !bindJSON(c, tt) {
		return
	}
	tt.ID = id
	tt.Assignments = nil
	if err := ctrl.TeeTimeSvc.Save(tt); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tt)
}

func (ctrl *TeeTimeController) DeleteTeeTime(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.TeeTimeSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

type assignPlayersPayload struct {
	ParticipantIDs []uint `json:"participant_ids" binding:"required"`
}

// AssignPlayers (POST /api/tee-times/:id/players); all ids are placed or none.
func (ctrl *TeeTimeController) AssignPlayers(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload assignPlayersPayload
	if !bindJSON(c, &payload) {
		return
	}
	if err := ctrl.TeeTimeSvc.BulkAssign(id, payload.ParticipantIDs); err != nil {
		respondServiceError(c, err)
		return
	}
	tt, err := ctrl.TeeTimeSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tt)
}

// UnassignPlayer (DELETE /api/tee-times/:id/players/:participantId)
func (ctrl *TeeTimeController) UnassignPlayer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	participantID, ok := paramID(c, "participantId")
	if !ok {
		return
	}
	if err := ctrl.TeeTimeSvc.Unassign(id, participantID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"tee_time_id": id, "participant_id": participantID})
}

type autoAssignPayload struct {
	PlayDate string `json:"play_date" binding:"required"`
}

// AutoAssign (POST /api/tours/:id/tee-times/auto-assign)
func (ctrl *TeeTimeController) AutoAssign(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload autoAssignPayload
	if !bindJSON(c, &payload) {
		return
	}
	res, err := ctrl.TeeTimeSvc.AutoAssign(tourID, payload.PlayDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// GetSchedule (GET /api/tours/:id/tee-times/schedule)
func (ctrl *TeeTimeController) GetSchedule(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	days, err := ctrl.TeeTimeSvc.Schedule(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, days)
}

// RemoveDuplicates (POST /api/tours/:id/tee-times/dedupe)
func (ctrl *TeeTimeController) RemoveDuplicates(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := ctrl.TeeTimeSvc.RemoveDuplicates(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"removed": n})
}
