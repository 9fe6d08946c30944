package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/topup-store/internal/domain"
	"github.com/fsdevblog/topup-store/internal/repository/repoargs"
	"github.com/fsdevblog/topup-store/internal/service"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type CatalogHandler struct {
	catalogService CatalogServicer
}

func NewCatalogHandler(catalogService CatalogServicer) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// Categories GET RouteGroup + CategoriesRoute.
func (h *CatalogHandler) Categories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	categories, err := h.catalogService.Categories(ctx)
	if err != nil {
		InternalErrorResponse(c, err)
		return
	}

	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, newCategoryResponse(&categories[i]))
	}
	SuccessResponse(c, http.StatusOK, gin.H{"categories": out})
}

// Category GET RouteGroup + CategoriesRoute + /:id.
func (h *CatalogHandler) Category(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	category, err := h.catalogService.Category(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "category not found")
			return
		}
		InternalErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"category": newCategoryResponse(category)})
}

// CategoryProducts GET RouteGroup + CategoriesRoute + /:id/products.
func (h *CatalogHandler) CategoryProducts(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	category, products, err := h.catalogService.CategoryProducts(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "category not found")
			return
		}
		InternalErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{
		"category": newCategoryResponse(category),
		"products": newProductResponses(products),
	})
}

type UpsertCategoryParams struct {
	Name        string `binding:"required,min=1,max=64" json:"name"`
	Description string `binding:"max=1024"              json:"description"`
	ImageURL    string `binding:"omitempty,url"         json:"image_url"`
}

// CreateCategory POST RouteGroup + CategoriesRoute.
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var params UpsertCategoryParams
	if !bindParams(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	category, err := h.catalogService.CreateCategory(ctx, repoargs.UpsertCategory{
		Name:        params.Name,
		Description: params.Description,
		ImageURL:    params.ImageURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			ErrorResponse(c, http.StatusConflict, CodeConflict, "category name already exists")
			return
		}
		InternalErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, gin.H{"category": newCategoryResponse(category)})
}

// UpdateCategory PUT RouteGroup + CategoriesRoute + /:id.
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var params UpsertCategoryParams
	if !bindParams(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	category, err := h.catalogService.UpdateCategory(ctx, id, repoargs.UpsertCategory{
		Name:        params.Name,
		Description: params.Description,
		ImageURL:    params.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "category not found")
		case errors.Is(err, domain.ErrDuplicateKey):
			ErrorResponse(c, http.StatusConflict, CodeConflict, "category name already exists")
		default:
			InternalErrorResponse(c, err)
		}
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"category": newCategoryResponse(category)})
}

// DeleteCategory DELETE RouteGroup + CategoriesRoute + /:id. Категория с
// продуктами не удаляется.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.catalogService.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "category not found")
		case errors.Is(err, domain.ErrReferenceConstraint):
			ErrorResponse(c, http.StatusConflict, CodeReferenced, "category has products")
		default:
			InternalErrorResponse(c, err)
		}
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"deleted": true})
}

// Products GET RouteGroup + ProductsRoute. Пагинация, фильтр по категории и
// поиск по названию/описанию через query параметры.
func (h *CatalogHandler) Products(c *gin.Context) {
	filter := repoargs.ProductFilter{
		Search:  c.Query("search"),
		Page:    parseUintQuery(c, "page", 1),
		PerPage: parseUintQuery(c, "per_page", defaultPerPage),
	}
	if filter.PerPage > maxPerPage {
		filter.PerPage = maxPerPage
	}
	if categoryID, err := strconv.ParseInt(c.Query("category_id"), 10, 64); err == nil {
		filter.CategoryID = categoryID
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	products, pagination, err := h.catalogService.Products(ctx, filter)
	if err != nil {
		InternalErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{
		"products": newProductResponses(products),
		"pagination": gin.H{
			"page":     pagination.Page,
			"per_page": pagination.PerPage,
			"total":    pagination.Total,
			"pages":    pagination.Pages,
		},
	})
}

// Product GET RouteGroup + ProductsRoute + /:id. Продукт вместе с опциями
// и остатком.
func (h *CatalogHandler) Product(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	details, err := h.catalogService.Product(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "product not found")
			return
		}
		InternalErrorResponse(c, err)
		return
	}

	resp := gin.H{"product": newProductResponse(details.Product)}
	if len(details.CustomOptions) > 0 {
		options := make([]gin.H, 0, len(details.CustomOptions))
		for _, opt := range details.CustomOptions {
			options = append(options, gin.H{
				"option_name":   opt.OptionName,
				"option_values": opt.OptionValues,
			})
		}
		resp["custom_options"] = options
	}
	if details.Inventory != nil {
		resp["quantity"] = details.Inventory.Quantity
	}
	SuccessResponse(c, http.StatusOK, resp)
}

type CustomOptionParams struct {
	OptionName   string `binding:"required,min=1,max=64" json:"option_name"`
	OptionValues string `binding:"required"              json:"option_values"`
}

type UpsertProductParams struct {
	CategoryID  int64                `binding:"required"               json:"category_id"`
	Name        string               `binding:"required,min=1,max=128" json:"name"`
	Description string               `binding:"max=4096"               json:"description"`
	Currency    string               `binding:"required,len=3"         json:"currency"`
	CostPrice   decimal.Decimal      `json:"cost_price"`
	SellPrice   decimal.Decimal      `binding:"required"               json:"sell_price"`
	ImageURL    string               `binding:"omitempty,url"          json:"image_url"`
	IsAvailable bool                 `json:"is_available"`
	ProductType string               `binding:"required,oneof=plain counter quantities custom" json:"product_type"`
	APILinked   bool                 `json:"api_linked"`
	APIDetails  string               `json:"api_details"`
	Options     []CustomOptionParams `json:"options"`
	Quantity    *int32               `json:"quantity"`
}

func (p *UpsertProductParams) toServiceArgs() service.UpsertProductArgs {
	options := make([]repoargs.CreateCustomOption, 0, len(p.Options))
	for _, opt := range p.Options {
		options = append(options, repoargs.CreateCustomOption{
			OptionName:   opt.OptionName,
			OptionValues: opt.OptionValues,
		})
	}
	return service.UpsertProductArgs{
		Product: repoargs.UpsertProduct{
			CategoryID:  p.CategoryID,
			Name:        p.Name,
			Description: p.Description,
			Currency:    p.Currency,
			CostPrice:   p.CostPrice,
			SellPrice:   p.SellPrice,
			ImageURL:    p.ImageURL,
			IsAvailable: p.IsAvailable,
			ProductType: p.ProductType,
			APILinked:   p.APILinked,
			APIDetails:  p.APIDetails,
		},
		CustomOptions: options,
		Quantity:      p.Quantity,
	}
}

// CreateProduct POST RouteGroup + ProductsRoute.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var params UpsertProductParams
	if !bindParams(c, &params) {
		return
	}
	if !params.SellPrice.IsPositive() {
		ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "sell_price must be positive")
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.catalogService.CreateProduct(ctx, params.toServiceArgs())
	if err != nil {
		if errors.Is(err, domain.ErrReferenceConstraint) {
			ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "category does not exist")
			return
		}
		InternalErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, gin.H{"product": newProductResponse(product)})
}

// UpdateProduct PUT RouteGroup + ProductsRoute + /:id.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var params UpsertProductParams
	if !bindParams(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.catalogService.UpdateProduct(ctx, id, params.toServiceArgs())
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "product not found")
			return
		}
		InternalErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"product": newProductResponse(product)})
}

// DeleteProduct DELETE RouteGroup + ProductsRoute + /:id. Продукт с заказами
// не удаляется.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.catalogService.DeleteProduct(ctx, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "product not found")
		case errors.Is(err, domain.ErrReferenceConstraint):
			ErrorResponse(c, http.StatusConflict, CodeReferenced, "product has orders")
		default:
			InternalErrorResponse(c, err)
		}
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"deleted": true})
}

// ToggleAvailability PATCH RouteGroup + ProductsRoute + /:id/toggle-availability.
func (h *CatalogHandler) ToggleAvailability(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	product, err := h.catalogService.ToggleProductAvailability(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusNotFound, CodeNotFound, "product not found")
			return
		}
		InternalErrorResponse(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"product": newProductResponse(product)})
}

func parseUintQuery(c *gin.Context, name string, fallback uint) uint {
	val, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil || val == 0 {
		return fallback
	}
	return uint(val)
}

// bindParams валидирует тело запроса. При ошибке пишет ответ и возвращает false.
func bindParams(c *gin.Context, params any) bool {
	if bindErr := c.ShouldBindJSON(params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			ErrorResponse(c, http.StatusUnprocessableEntity, CodeInvalidArgument, valErrs.Error())
			return false
		}
		ErrorResponse(c, http.StatusBadRequest, CodeInvalidArgument, "malformed request body")
		return false
	}
	return true
}
