package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service sentinels onto HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrParticipantNotInTour),
		errors.Is(err, services.ErrParticipantCancelled),
		errors.Is(err, services.ErrMessageTooLong),
		errors.Is(err, services.ErrNoRecipients):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrDuplicatePhone),
		errors.Is(err, services.ErrTourFull),
		errors.Is(err, services.ErrRoomFull),
		errors.Is(err, services.ErrTeeTimeFull),
		errors.Is(err, services.ErrTourHasParticipants),
		errors.Is(err, services.ErrSettlementLocked):
		status = http.StatusConflict
	case errors.Is(err, services.ErrLinkInactive), errors.Is(err, services.ErrLinkExpired):
		status = http.StatusGone
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrLetterDisabled):
		status = http.StatusServiceUnavailable
	default:
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		utils.JSONError(c, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.JSONError(c, status, err.Error())
}

// paramID reads a positive uint path parameter and answers 400 when it is malformed.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryUint returns nil for a missing or malformed query value.
func queryUint(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}
	id := uint(v)
	return &id
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return false
	}
	return true
}

// currentAdminID is set by middleware.AuthRequired.
func currentAdminID(c *gin.Context) uint {
	if v, ok := c.Get("admin_id"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func currentUsername(c *gin.Context) string {
	return c.GetString("username")
}
