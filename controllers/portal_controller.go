package controllers

import (
	"net/http"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type PortalController struct {
	PortalSvc *services.PortalService
	DocSvc    *services.DocumentService
}

func NewPortalController(portal *services.PortalService, docs *services.DocumentService) *PortalController {
	return &PortalController{PortalSvc: portal, DocSvc: docs}
}

// GetLinks (GET /api/tours/:id/links)
func (ctrl *PortalController) GetLinks(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	links, err := ctrl.PortalSvc.ListLinks(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, links)
}

// CreateLink (POST /api/links)
func (ctrl *PortalController) CreateLink(c *gin.Context) {
	var l models.PublicLink
	if !bindJSON(c, &l) {
		return
	}
	if err := ctrl.PortalSvc.CreateLink(&l); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, l)
}

// UpdateLink (PATCH /api/links/:id)
func (ctrl *PortalController) UpdateLink(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var u services.LinkUpdate
	if !bindJSON(c, &u) {
		return
	}
	l, err := ctrl.PortalSvc.UpdateLink(c.Request.Context(), id, u)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, l)
}

func (ctrl *PortalController) DeleteLink(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.PortalSvc.DeleteLink(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// GetTourDocument (GET /api/tours/:id/documents/:type)
func (ctrl *PortalController) GetTourDocument(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	doc, err := ctrl.DocSvc.ForTour(tourID, strings.TrimSpace(c.Param("type")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, doc)
}

// ViewPortal (GET /public/:token) is the only unauthenticated document route.
func (ctrl *PortalController) ViewPortal(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		utils.JSONError(c, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}
	view, err := ctrl.PortalSvc.Resolve(c.Request.Context(), token)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}
