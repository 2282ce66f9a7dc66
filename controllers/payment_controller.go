package controllers

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentSvc *services.PaymentService
}

func NewPaymentController(svc *services.PaymentService) *PaymentController {
	return &PaymentController{PaymentSvc: svc}
}

// GetPayments (GET /api/tours/:id/payments)
func (ctrl *PaymentController) GetPayments(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := ctrl.PaymentSvc.ListByTour(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// CreatePayment (POST /api/tours/:id/payments)
func (ctrl *PaymentController) CreatePayment(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p models.Payment
	if !bindJSON(c, &p) {
		return
	}
	p.TourID = tourID
	if err := ctrl.PaymentSvc.Create(&p); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, p)
}

func (ctrl *PaymentController) UpdatePayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := ctrl.PaymentSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !bindJSON(c, p) {
		return
	}
	p.ID = id
	if err := ctrl.PaymentSvc.Update(p); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

func (ctrl *PaymentController) DeletePayment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.PaymentSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// GetSummary (GET /api/tours/:id/payments/summary)
func (ctrl *PaymentController) GetSummary(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	sum, err := ctrl.PaymentSvc.Summary(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sum)
}
