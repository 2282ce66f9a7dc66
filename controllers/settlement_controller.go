package controllers

import (
	"errors"
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type SettlementController struct {
	SettlementSvc *services.SettlementService
}

func NewSettlementController(svc *services.SettlementService) *SettlementController {
	return &SettlementController{SettlementSvc: svc}
}

// ----------------------------------------------------
// Expenses (/api/tours/:id/expenses, /api/expenses/:id)
// ----------------------------------------------------

func (ctrl *SettlementController) GetExpenses(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := ctrl.SettlementSvc.ListExpenses(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *SettlementController) CreateExpense(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var e models.TourExpense
	if !bindJSON(c, &e) {
		return
	}
	e.ID = 0
	e.TourID = tourID
	if err := ctrl.SettlementSvc.SaveExpense(&e); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, e)
}

func (ctrl *SettlementController) UpdateExpense(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var e models.TourExpense
	if !bindJSON(c, &e) {
		return
	}
	e.ID = id
	if err := ctrl.SettlementSvc.SaveExpense(&e); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, e)
}

func (ctrl *SettlementController) DeleteExpense(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.SettlementSvc.DeleteExpense(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// ----------------------------------------------------
// Settlement (/api/tours/:id/settlement)
// ----------------------------------------------------

// GetSettlement returns the stored snapshot, or a live computation when none was saved yet.
func (ctrl *SettlementController) GetSettlement(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	st, err := ctrl.SettlementSvc.Get(tourID)
	if errors.Is(err, services.ErrNotFound) {
		st, err = ctrl.SettlementSvc.Compute(tourID)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, st)
}

// ComputeSettlement (GET /api/tours/:id/settlement/compute)
func (ctrl *SettlementController) ComputeSettlement(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	st, err := ctrl.SettlementSvc.Compute(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, st)
}

type saveSettlementPayload struct {
	Note string `json:"note"`
}

// SaveSettlement (POST /api/tours/:id/settlement)
func (ctrl *SettlementController) SaveSettlement(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload saveSettlementPayload
	if c.Request.ContentLength > 0 && !bindJSON(c, &payload) {
		return
	}
	st, err := ctrl.SettlementSvc.Save(tourID, payload.Note)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, st)
}

func (ctrl *SettlementController) ConfirmSettlement(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	st, err := ctrl.SettlementSvc.Confirm(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, st)
}

func (ctrl *SettlementController) ReopenSettlement(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	st, err := ctrl.SettlementSvc.Reopen(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, st)
}

// GetReport (GET /api/settlements/report?from=YYYY-MM-DD&to=YYYY-MM-DD)
func (ctrl *SettlementController) GetReport(c *gin.Context) {
	report, err := ctrl.SettlementSvc.Report(c.Query("from"), c.Query("to"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}
