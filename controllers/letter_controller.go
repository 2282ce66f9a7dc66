package controllers

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type LetterController struct {
	LetterSvc *services.LetterService
}

func NewLetterController(svc *services.LetterService) *LetterController {
	return &LetterController{LetterSvc: svc}
}

// GenerateLetter (POST /api/letters)
func (ctrl *LetterController) GenerateLetter(c *gin.Context) {
	var req services.LetterRequest
	if !bindJSON(c, &req) {
		return
	}
	letter, err := ctrl.LetterSvc.Generate(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, letter)
}

// GetLetters (GET /api/letters?customer_id=)
func (ctrl *LetterController) GetLetters(c *gin.Context) {
	out, err := ctrl.LetterSvc.List(queryUint(c, "customer_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *LetterController) DeleteLetter(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.LetterSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
