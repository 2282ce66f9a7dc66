package controllers

import (
	"net/http"

	"github.com/whalechillz/go-singsing-sub006/models"
	"github.com/whalechillz/go-singsing-sub006/services"
	"github.com/whalechillz/go-singsing-sub006/utils"

	"github.com/gin-gonic/gin"
)

type ProductController struct {
	ProductSvc *services.ProductService
}

func NewProductController(svc *services.ProductService) *ProductController {
	return &ProductController{ProductSvc: svc}
}

func (ctrl *ProductController) GetProducts(c *gin.Context) {
	products, err := ctrl.ProductSvc.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, products)
}

func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := ctrl.ProductSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var p models.TourProduct
	if !bindJSON(c, &p) {
		return
	}
	p.ID = 0
	if err := ctrl.ProductSvc.Save(&p); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, p)
}

func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	p, err := ctrl.ProductSvc.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !bindJSON(c, p) {
		return
	}
	p.ID = id
	if err := ctrl.ProductSvc.Save(p); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.ProductSvc.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

type productImagePayload struct {
	Image string `json:"image" binding:"required"`
}

// UploadImage (POST /api/products/:id/images) takes a base64 data URL.
func (ctrl *ProductController) UploadImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload productImagePayload
	if !bindJSON(c, &payload) {
		return
	}
	p, err := ctrl.ProductSvc.AddImage(id, payload.Image)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}
