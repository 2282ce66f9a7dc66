package controllers

import (
	"net/http"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AdminSvc *services.AdminService
}

func NewAuthController(svc *services.AdminService) *AuthController {
	return &AuthController{AdminSvc: svc}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login (POST /api/auth/login)
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload) {
		return
	}
	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		utils.JSONError(c, http.StatusBadRequest, "username and password required")
		return
	}

	res, err := ctrl.AdminSvc.Login(username, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// Me (GET /api/auth/me)
func (ctrl *AuthController) Me(c *gin.Context) {
	admin, err := ctrl.AdminSvc.GetAdmin(currentAdminID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, admin)
}
