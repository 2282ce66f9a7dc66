package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type ParticipantController struct {
	ParticipantSvc *services.ParticipantService
}

func NewParticipantController(svc *services.ParticipantService) *ParticipantController {
	return &ParticipantController{ParticipantSvc: svc}
}

// GetParticipants (GET /api/tours/:id/participants?status=&q=)
func (ctrl *ParticipantController) GetParticipants(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := ctrl.ParticipantSvc.ListByTour(tourID, services.ParticipantFilter{
		Status: c.Query("status"),
		Query:  strings.TrimSpace(c.Query("q")),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *ParticipantController) GetParticipant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := ctrl.ParticipantSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

// CreateParticipant (POST /api/tours/:id/participants)
func (ctrl *ParticipantController) CreateParticipant(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var p models.Participant
	if !bindJSON(c, &p) {
		return
	}
	p.TourID = tourID
	if err := ctrl.ParticipantSvc.Create(&p); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, p)
}

func (ctrl *ParticipantController) UpdateParticipant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := ctrl.ParticipantSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !bindJSON(c, p) {
		return
	}
	p.ID = id
	p.Room = nil
	p.BoardingPlace = nil
	if err := ctrl.ParticipantSvc.Update(p); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

// CancelParticipant (POST /api/participants/:id/cancel)
func (ctrl *ParticipantController) CancelParticipant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := ctrl.ParticipantSvc.Cancel(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

func (ctrl *ParticipantController) DeleteParticipant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.ParticipantSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

type importPayload struct {
	Rows []models.Participant `json:"rows"`
}

// ImportParticipants (POST /api/tours/:id/participants/import) accepts a multipart
// "file" upload (.xlsx workbook or CSV) or a JSON body {"rows": [...]}.
func (ctrl *ParticipantController) ImportParticipants(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var rows []models.Participant
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "file is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "cannot read upload")
			return
		}
		defer f.Close()
		if strings.EqualFold(filepath.Ext(fh.Filename), ".xlsx") {
			rows, err = services.ParseParticipantXLSX(f)
		} else {
			rows, err = services.ParseParticipantCSV(f)
		}
		if err != nil {
			respondServiceError(c, err)
			return
		}
	} else {
		var payload importPayload
		if !bindJSON(c, &payload) {
			return
		}
		rows = payload.Rows
	}
	if len(rows) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "no rows to import")
		return
	}

	res, err := ctrl.ParticipantSvc.BulkImport(tourID, rows)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// ExportParticipants (GET /api/tours/:id/participants/export?format=xlsx|csv) sends the
// participant list as a download; csv is the default.
func (ctrl *ParticipantController) ExportParticipants(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var buf bytes.Buffer
	contentType, ext := "text/csv; charset=utf-8", "csv"
	var err error
	if strings.EqualFold(c.Query("format"), "xlsx") {
		contentType, ext = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
		err = ctrl.ParticipantSvc.ExportXLSX(tourID, &buf)
	} else {
		err = ctrl.ParticipantSvc.ExportCSV(tourID, &buf)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="participants_%d.%s"`, tourID, ext))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
