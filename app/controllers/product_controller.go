package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/app/services"
	"github.com/keysncaps/keysncaps/pkg/bind"
	"github.com/keysncaps/keysncaps/pkg/logger"
	"github.com/keysncaps/keysncaps/pkg/response"
)

const maxImageBytes = 8 << 20

// ProductController serves the public catalog and the admin product CRUD.
type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// List is the public catalog listing with optional filters:
// ?category=, ?max_price=, ?q=, ?page=, ?limit=.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repositories.ProductFilter{
		Category:   q.Get("category"),
		SearchTerm: q.Get("q"),
	}
	if v := q.Get("max_price"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = p
		}
	}

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	products, total, err := c.service.List(r.Context(), filter, page, limit)
	if err != nil {
		logger.WithCtx(r.Context()).Error("product: list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not load products")
		return
	}

	response.Paginated(w, products, response.NewPagination(page, limit, total))
}

// Show returns a single product by id.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("product: show failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not load product")
		return
	}
	response.Success(w, product)
}

type productRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	SKU         string  `json:"sku" validate:"required,min=2,max=100"`
	Description string  `json:"description"`
	Category    string  `json:"category" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Active      bool    `json:"active"`
}

// Create is the admin endpoint for adding a catalog entry.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var body productRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product := models.Product{
		Name:        body.Name,
		SKU:         body.SKU,
		Description: body.Description,
		Category:    body.Category,
		Price:       body.Price,
		Stock:       body.Stock,
		Active:      body.Active,
	}
	if err := c.service.Create(r.Context(), &product); err != nil {
		logger.WithCtx(r.Context()).Error("product: create failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not create product")
		return
	}

	response.Created(w, product)
}

// Update overwrites a product's mutable fields.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	current, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not load product")
		return
	}

	var body productRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	current.Name = body.Name
	current.SKU = body.SKU
	current.Description = body.Description
	current.Category = body.Category
	current.Price = body.Price
	current.Stock = body.Stock
	current.Active = body.Active

	if err := c.service.Update(r.Context(), &current); err != nil {
		logger.WithCtx(r.Context()).Error("product: update failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not update product")
		return
	}

	response.Success(w, current)
}

type stockRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}

// UpdateStock sets the inventory counter for a product.
func (c *ProductController) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var body stockRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	id := chi.URLParam(r, "id")
	if err := c.service.SetStock(r.Context(), id, body.Stock); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not update stock")
		return
	}

	response.Success(w, map[string]interface{}{"id": id, "stock": body.Stock})
}

// Delete soft-deletes a product via its active flag.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not delete product")
		return
	}
	response.Success(w, map[string]string{"message": "product deactivated"})
}

// UploadImage accepts a multipart "image" file and stores it on the
// configured disk.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not read upload")
		return
	}

	url, err := c.service.AttachImage(r.Context(), chi.URLParam(r, "id"), header.Filename, data)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			response.NotFound(w)
			return
		}
		logger.WithCtx(r.Context()).Error("product: image upload failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not store image")
		return
	}

	response.Success(w, map[string]string{"image_url": url})
}
