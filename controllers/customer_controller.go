package controllers

import (
	"net/http"
	"strings"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	CustomerSvc *services.CustomerService
}

func NewCustomerController(svc *services.CustomerService) *CustomerController {
	return &CustomerController{CustomerSvc: svc}
}

// GetCustomers (GET /api/customers?q=&tag=&status=)
func (ctrl *CustomerController) GetCustomers(c *gin.Context) {
	out, err := ctrl.CustomerSvc.List(services.CustomerFilter{
		Query:  strings.TrimSpace(c.Query("q")),
		Tag:    strings.TrimSpace(c.Query("tag")),
		Status: c.Query("status"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

func (ctrl *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	customer, err := ctrl.CustomerSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customer)
}

// CreateCustomer (POST /api/customers)
func (ctrl *CustomerController) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if !bindJSON(c, &customer) {
		return
	}
	customer.ID = 0
	if err := ctrl.CustomerSvc.Create(&customer); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, customer)
}

func (ctrl *CustomerController) UpdateCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	customer, err := ctrl.CustomerSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !bindJSON(c, customer) {
		return
	}
	customer.ID = id
	if err := ctrl.CustomerSvc.Update(customer); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, customer)
}

func (ctrl *CustomerController) DeleteCustomer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.CustomerSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// GetHistory (GET /api/customers/:id/tours)
func (ctrl *CustomerController) GetHistory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tours, err := ctrl.CustomerSvc.History(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tours)
}

// SyncFromTour (POST /api/tours/:id/customers/sync)
func (ctrl *CustomerController) SyncFromTour(c *gin.Context) {
	tourID, ok := paramID(c, "id")
	if !ok {
		return
	}
	res, err := ctrl.CustomerSvc.SyncFromTour(tourID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}
