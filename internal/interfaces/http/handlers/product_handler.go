package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agrichain.backend/internal/domain/entities"
	"agrichain.backend/internal/interfaces/http/response"
	"agrichain.backend/internal/usecases"
)

// ProductHandler handles product endpoints
type ProductHandler struct {
	productUsecase *usecases.ProductUsecase
}

// NewProductHandler creates a new product handler
func NewProductHandler(productUsecase *usecases.ProductUsecase) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase}
}

type listProductsQuery struct {
	FarmerID int64  `form:"farmerId" binding:"omitempty,gt=0"`
	Category string `form:"category"`
}

type qrQuery struct {
	Size int `form:"size" binding:"omitempty,min=64,max=1024"`
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var q listProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	products, err := h.productUsecase.ListProducts(c.Request.Context(), entities.ProductFilter{
		FarmerID: q.FarmerID,
		Category: q.Category,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, products)
}

// SearchProducts handles GET /api/products/search?q=
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	products, err := h.productUsecase.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, products)
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productUsecase.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var input entities.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	product, err := h.productUsecase.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input entities.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	product, err := h.productUsecase.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.productUsecase.DeleteProduct(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProductQRCode handles GET /api/products/:id/qr
func (h *ProductHandler) ProductQRCode(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var q qrQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	png, err := h.productUsecase.ProductQRCode(c.Request.Context(), id, q.Size)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
