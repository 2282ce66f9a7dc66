package controllers

import (
	"net/http"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type RoleController struct {
	RoleSvc *services.RoleService
}

func NewRoleController(svc *services.RoleService) *RoleController {
	return &RoleController{RoleSvc: svc}
}

type rolePermissionsPayload struct {
	Permissions []string `json:"permissions"`
}

func (ctrl *RoleController) GetRoles(c *gin.Context) {
	roles, err := ctrl.RoleSvc.GetRoles()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, roles)
}

// UpdateRolePermissions accepts a role id or a role name in :id.
func (ctrl *RoleController) UpdateRolePermissions(c *gin.Context) {
	var payload rolePermissionsPayload
	if !bindJSON(c, &payload) {
		return
	}
	ref := strings.TrimSpace(c.Param("id"))
	if err := ctrl.RoleSvc.UpdateRolePermissions(ref, payload.Permissions); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "permissions updated"})
}
