package controllers

import (
	"net/http"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	AdminSvc *services.AdminService
}

func NewAdminController(svc *services.AdminService) *AdminController {
	return &AdminController{AdminSvc: svc}
}

type createAdminPayload struct {
	FullName string `json:"full_name"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

func (ctrl *AdminController) GetAdmins(c *gin.Context) {
	admins, err := ctrl.AdminSvc.ListAdmins()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, admins)
}

func (ctrl *AdminController) CreateAdmin(c *gin.Context) {
	var payload createAdminPayload
	if !bindJSON(c, &payload) {
		return
	}
	admin := models.Admin{
		FullName: strings.TrimSpace(payload.FullName),
		Username: strings.TrimSpace(payload.Username),
		Role:     strings.ToLower(strings.TrimSpace(payload.Role)),
	}
	if err := ctrl.AdminSvc.CreateAdmin(&admin, payload.Password); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, admin)
}

func (ctrl *AdminController) DeleteAdmin(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.AdminSvc.DeleteAdmin(id, currentAdminID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
