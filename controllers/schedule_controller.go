package controllers

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type ScheduleController struct {
	ScheduleSvc *services.ScheduleService
}

func NewScheduleController(svc *services.ScheduleService) *ScheduleController {
	return &ScheduleController{ScheduleSvc: svc}
}

// GetSchedules (GET /api/tours/:id/schedules)
func (ctrl *ScheduleController) GetSchedules(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := ctrl.ScheduleSvc.ListByTour(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// CreateSchedule (POST /api/tours/:id/schedules)
func (ctrl *ScheduleController) CreateSchedule(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var sc models.Schedule
	if !bindJSON(c, &sc) {
		return
	}
	sc.ID = 0
	sc.TourID = tourID
	if err := ctrl.ScheduleSvc.Save(&sc); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, sc)
}

func (ctrl *ScheduleController) UpdateSchedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	sc, err := ctrl.ScheduleSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	tourID := sc.TourID
	if !bindJSON(c, sc) {
		return
	}
	sc.ID = id
	sc.TourID = tourID
	if err := ctrl.ScheduleSvc.Save(sc); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sc)
}

func (ctrl *ScheduleController) DeleteSchedule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.ScheduleSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
