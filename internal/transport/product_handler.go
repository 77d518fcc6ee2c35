package transport

import (
	"errors"
	"net/http"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/middleware"
	"catalogo-api/internal/repository"
	"catalogo-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgProductNotFound = "Produto não encontrado"
	msgProductCreated  = "Produto criado com sucesso"
	msgProductUpdated  = "Produto atualizado com sucesso"
	msgProductDeleted  = "Produto removido com sucesso"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name  *string  `json:"nome" validate:"required,min=1,max=255"`
	Price *float64 `json:"preco" validate:"required,gte=0"`
	Stock *int     `json:"estoque" validate:"required,gte=0"`
}

// UpdateProductRequest represents a partial product update; absent fields are kept
type UpdateProductRequest struct {
	Name  *string  `json:"nome" validate:"omitempty,min=1,max=255"`
	Price *float64 `json:"preco" validate:"omitempty,gte=0"`
	Stock *int     `json:"estoque" validate:"omitempty,gte=0"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/produtos", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)

		r.Route("/{id}", func(r chi.Router) {
			r.Use(middleware.IdentifierMiddleware("id", h.logger))
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	product, err := h.productService.Create(r.Context(), domain.ProductInput{
		Name:  *req.Name,
		Price: *req.Price,
		Stock: *req.Stock,
	})
	if err != nil {
		h.respondWithServiceError(w, err, "Erro ao criar produto")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithSuccess(w, http.StatusCreated, product, msgProductCreated)
}

// List handles paginated product listing
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := middleware.ParseListQuery(r.URL.Query())
	if err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	page, err := h.productService.List(r.Context(), query)
	if err != nil {
		h.respondWithServiceError(w, err, middleware.MsgInternalError)
		return
	}

	middleware.RespondWithSuccess(w, http.StatusOK, page, "")
}

// Get handles fetching one product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentifier(r.Context())

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, err, middleware.MsgInternalError)
		return
	}

	middleware.RespondWithSuccess(w, http.StatusOK, product, "")
}

// Update handles partial product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentifier(r.Context())

	var req UpdateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	product, err := h.productService.Update(r.Context(), id, domain.ProductPatch{
		Name:  req.Name,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		h.respondWithServiceError(w, err, "Erro ao atualizar produto")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id.String()))
	middleware.RespondWithSuccess(w, http.StatusOK, product, msgProductUpdated)
}

// Delete handles product removal
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentifier(r.Context())

	if err := h.productService.Delete(r.Context(), id); err != nil {
		h.respondWithServiceError(w, err, middleware.MsgInternalError)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithSuccess(w, http.StatusOK, nil, msgProductDeleted)
}

// respondWithServiceError maps a service failure to exactly one response.
// writeFailure is used when a write went through but could not be read back.
func (h *ProductHandler) respondWithServiceError(w http.ResponseWriter, err error, writeFailure string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, msgProductNotFound)
	case errors.Is(err, service.ErrNotVisibleAfterWrite):
		h.logger.Error("Product not readable after write", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, writeFailure)
	default:
		h.logger.Error("Product operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.MsgInternalError)
	}
}

