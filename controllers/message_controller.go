package controllers

import (
	"net/http"
	"strconv"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	TemplateSvc  *services.MessageTemplateService
	MessagingSvc *services.MessagingService
}

func NewMessageController(templates *services.MessageTemplateService, messaging *services.MessagingService) *MessageController {
	return &MessageController{TemplateSvc: templates, MessagingSvc: messaging}
}

// ----------------------------------------------------
// Templates (/api/message-templates)
// ----------------------------------------------------

func (ctrl *MessageController) GetTemplates(c *gin.Context) {
	out, err := ctrl.TemplateSvc.List(c.Query("active") == "true")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *MessageController) CreateTemplate(c *gin.Context) {
	var t models.MessageTemplate
	if !bindJSON(c, &t) {
		return
	}
	t.ID = 0
	if err := ctrl.TemplateSvc.Save(&t); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, t)
}

func (ctrl *MessageController) UpdateTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	t, err := ctrl.TemplateSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !bindJSON(c, t) {
		return
	}
	t.ID = id
	if err := ctrl.TemplateSvc.Save(t); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, t)
}

func (ctrl *MessageController) DeleteTemplate(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.TemplateSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

type previewPayload struct {
	TemplateID *uint             `json:"template_id"`
	Content    string            `json:"content"`
	Variables  map[string]string `json:"variables"`
}

// PreviewTemplate (POST /api/message-templates/preview)
func (ctrl *MessageController) PreviewTemplate(c *gin.Context) {
	var payload previewPayload
	if !bindJSON(c, &payload) {
		return
	}
	content := payload.Content
	if payload.TemplateID != nil {
		t, err := ctrl.TemplateSvc.Get(*payload.TemplateID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		content = t.Content
	}
	if content == "" {
		utils.JSONError(c, http.StatusBadRequest, "content or template_id required")
		return
	}
	preview, err := services.Preview(content, payload.Variables)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, preview)
}

// ----------------------------------------------------
// Sending (/api/messages)
// ----------------------------------------------------

// SendMessages (POST /api/messages/send)
func (ctrl *MessageController) SendMessages(c *gin.Context) {
	var req services.SendRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := ctrl.MessagingSvc.Send(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// RetryFailed (POST /api/messages/retry)
func (ctrl *MessageController) RetryFailed(c *gin.Context) {
	var f services.RetryFilter
	if !bindJSON(c, &f) {
		return
	}
	res, err := ctrl.MessagingSvc.RetryFailed(c.Request.Context(), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// GetLogs (GET /api/messages/logs?tour_id=&status=&phone=&limit=)
func (ctrl *MessageController) GetLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := ctrl.MessagingSvc.ListLogs(services.LogFilter{
		TourID: queryUint(c, "tour_id"),
		Status: c.Query("status"),
		Phone:  c.Query("phone"),
		Limit:  limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, logs)
}
