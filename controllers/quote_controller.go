package controllers

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type QuoteController struct {
	QuoteSvc *services.QuoteService
	DocSvc   *services.DocumentService
}

func NewQuoteController(svc *services.QuoteService, docs *services.DocumentService) *QuoteController {
	return &QuoteController{QuoteSvc: svc, DocSvc: docs}
}

// GetQuotes (GET /api/quotes?status=)
func (ctrl *QuoteController) GetQuotes(c *gin.Context) {
	out, err := ctrl.QuoteSvc.List(c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *QuoteController) GetQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	q, err := ctrl.QuoteSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, q)
}

func (ctrl *QuoteController) CreateQuote(c *gin.Context) {
	var q models.Quote
	if !bindJSON(c, &q) {
		return
	}
	q.TourProduct = nil
	if err := ctrl.QuoteSvc.Create(&q); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, q)
}

func (ctrl *QuoteController) UpdateQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	q, err := ctrl.QuoteSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !bindJSON(c, q) {
		return
	}
	q.ID = id
	q.TourProduct = nil
	if err := ctrl.QuoteSvc.Update(q); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, q)
}

func (ctrl *QuoteController) DeleteQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.QuoteSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

type emailQuotePayload struct {
	To string `json:"to" binding:"required"`
}

// EmailQuote (POST /api/quotes/:id/email)
func (ctrl *QuoteController) EmailQuote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload emailQuotePayload
	if !bindJSON(c, &payload) {
		return
	}
	q, err := ctrl.QuoteSvc.Email(c.Request.Context(), id, payload.To)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, q)
}

// GetDocument (GET /api/quotes/:id/document)
func (ctrl *QuoteController) GetDocument(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	doc, err := ctrl.DocSvc.ForQuote(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, doc)
}
