package controllers

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type TourController struct {
	TourSvc *services.TourService
}

func NewTourController(svc *services.TourService) *TourController {
	return &TourController{TourSvc: svc}
}

// GetTours (GET /api/tours?status=&from=&to=&q=)
func (ctrl *TourController) GetTours(c *gin.Context) {
	tours, err := ctrl.TourSvc.List(services.TourFilter{
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Query:  c.Query("q"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tours)
}

func (ctrl *TourController) GetTour(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tour, err := ctrl.TourSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tour)
}

func (ctrl *TourController) CreateTour(c *gin.Context) {
	var tour models.Tour
	if !bindJSON(c, &tour) {
		return
	}
	if err := ctrl.TourSvc.Create(&tour); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, tour)
}

// UpdateTour binds the payload over the stored tour so omitted fields keep their values.
func (ctrl *TourController) UpdateTour(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tour, err := ctrl.TourSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !bindJSON(c, tour) {
		return
	}
	tour.ID = id
	tour.Product = nil
	if err := ctrl.TourSvc.Update(tour); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tour)
}

func (ctrl *TourController) DeleteTour(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.TourSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
