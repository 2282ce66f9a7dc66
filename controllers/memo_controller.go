package controllers

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type MemoController struct {
	MemoSvc *services.MemoService
}

func NewMemoController(svc *services.MemoService) *MemoController {
	return &MemoController{MemoSvc: svc}
}

// GetMemos (GET /api/memos?customer_id=&tour_id=&participant_id=&status=)
func (ctrl *MemoController) GetMemos(c *gin.Context) {
	out, err := ctrl.MemoSvc.List(services.MemoFilter{
		CustomerID:    queryUint(c, "customer_id"),
		TourID:        queryUint(c, "tour_id"),
		ParticipantID: queryUint(c, "participant_id"),
		Status:        c.Query("status"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *MemoController) CreateMemo(c *gin.Context) {
	var m models.Memo
	if !bindJSON(c, &m) {
		return
	}
	if m.CreatedBy == "" {
		m.CreatedBy = currentUsername(c)
	}
	if err := ctrl.MemoSvc.Create(&m); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, m)
}

func (ctrl *MemoController) UpdateMemo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var m models.Memo
	if !bindJSON(c, &m) {
		return
	}
	m.ID = id
	if err := ctrl.MemoSvc.Update(&m); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, m)
}

// CompleteMemo (POST /api/memos/:id/complete)
func (ctrl *MemoController) CompleteMemo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	m, err := ctrl.MemoSvc.Complete(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, m)
}

func (ctrl *MemoController) DeleteMemo(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.MemoSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
