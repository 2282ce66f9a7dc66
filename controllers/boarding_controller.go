package controllers

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type BoardingController struct {
	BoardingSvc *services.BoardingService
}

func NewBoardingController(svc *services.BoardingService) *BoardingController {
	return &BoardingController{BoardingSvc: svc}
}

// ----------------------------------------------------
// Boarding places (/api/boarding-places)
// ----------------------------------------------------

func (ctrl *BoardingController) GetPlaces(c *gin.Context) {
	places, err := ctrl.BoardingSvc.ListPlaces()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, places)
}

func (ctrl *BoardingController) CreatePlace(c *gin.Context) {
	var p models.BoardingPlace
	if !bindJSON(c, &p) {
		return
	}
	p.ID = 0
	if err := ctrl.BoardingSvc.SavePlace(&p); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, p)
}

func (ctrl *BoardingController) UpdatePlace(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p models.BoardingPlace
	if !bindJSON(c, &p) {
		return
	}
	p.ID = id
	if err := ctrl.BoardingSvc.SavePlace(&p); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

func (ctrl *BoardingController) DeletePlace(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.BoardingSvc.DeletePlace(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// ----------------------------------------------------
// Departure times of a tour (/api/tours/:id/boarding-times)
// ----------------------------------------------------

func (ctrl *BoardingController) GetTimes(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	times, err := ctrl.BoardingSvc.ListTimes(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, times)
}

// SaveTime creates the stop, or updates it when the body carries an id.
func (ctrl *BoardingController) SaveTime(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var bt models.TourBoardingTime
	if !bindJSON(c, &bt) {
		return
	}
	bt.TourID = tourID
	if err := ctrl.BoardingSvc.SaveTime(&bt); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bt)
}

func (ctrl *BoardingController) DeleteTime(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.BoardingSvc.DeleteTime(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
