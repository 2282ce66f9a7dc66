package controllers

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	SettingsSvc *services.SettingsService
}

func NewSettingsController(svc *services.SettingsService) *SettingsController {
	return &SettingsController{SettingsSvc: svc}
}

type companySettingsPayload struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	Logo        string `json:"logo"`
	BankAccount string `json:"bank_account"`
}

func (ctrl *SettingsController) GetCompanySettings(c *gin.Context) {
	company, err := ctrl.SettingsSvc.Get()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, company)
}

func (ctrl *SettingsController) UpdateCompanySettings(c *gin.Context) {
	var payload companySettingsPayload
	if !bindJSON(c, &payload) {
		return
	}
	company, err := ctrl.SettingsSvc.Save(models.CompanySetting{
		Name:        payload.Name,
		Address:     payload.Address,
		Phone:       payload.Phone,
		Email:       payload.Email,
		Website:     payload.Website,
		Logo:        payload.Logo,
		BankAccount: payload.BankAccount,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, company)
}
