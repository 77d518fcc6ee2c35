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
	msgClientNotFound     = "Cliente não encontrado"
	msgEmailAlreadyExists = "Email já está em uso"
	msgClientCreated      = "Cliente criado com sucesso"
	msgClientUpdated      = "Cliente atualizado com sucesso"
	msgClientDeleted      = "Cliente removido com sucesso"
)

// CreateClientRequest represents the client creation payload
type CreateClientRequest struct {
	Name  *string `json:"nome" validate:"required,min=1,max=255"`
	Email *string `json:"email" validate:"required,email,max=255"`
}

// Normalize lowercases and trims the email before validation
func (req *CreateClientRequest) Normalize() {
	normalizeEmail(req.Email)
}

// UpdateClientRequest represents a partial client update; absent fields are kept
type UpdateClientRequest struct {
	Name  *string `json:"nome" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
}

// Normalize lowercases and trims the email before validation
func (req *UpdateClientRequest) Normalize() {
	normalizeEmail(req.Email)
}

func normalizeEmail(email *string) {
	if email != nil {
		*email = middleware.NormalizeEmail(*email)
	}
}

// ClientHandler handles HTTP requests for client operations
type ClientHandler struct {
	clientService service.ClientService
	logger        *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// RegisterRoutes registers all client routes
func (h *ClientHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/clientes", func(r chi.Router) {
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

// Create handles client registration
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Client validation failed", zap.Error(err))
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	client, err := h.clientService.Create(r.Context(), domain.ClientInput{
		Name:  *req.Name,
		Email: *req.Email,
	})
	if err != nil {
		h.respondWithServiceError(w, err, "Erro ao criar cliente")
		return
	}

	h.logger.Info("Client created", zap.String("client_id", client.ID.String()))
	middleware.RespondWithSuccess(w, http.StatusCreated, client, msgClientCreated)
}

// List handles paginated client listing
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := middleware.ParseListQuery(r.URL.Query())
	if err != nil {
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	page, err := h.clientService.List(r.Context(), query)
	if err != nil {
		h.respondWithServiceError(w, err, middleware.MsgInternalError)
		return
	}

	middleware.RespondWithSuccess(w, http.StatusOK, page, "")
}

// Get handles fetching one client
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentifier(r.Context())

	client, err := h.clientService.Get(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, err, middleware.MsgInternalError)
		return
	}

	middleware.RespondWithSuccess(w, http.StatusOK, client, "")
}

// Update handles partial client updates
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentifier(r.Context())

	var req UpdateClientRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Client validation failed", zap.Error(err))
		middleware.RespondWithValidationErrors(w, middleware.FormatValidationErrors(err))
		return
	}

	client, err := h.clientService.Update(r.Context(), id, domain.ClientPatch{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.respondWithServiceError(w, err, "Erro ao atualizar cliente")
		return
	}

	h.logger.Info("Client updated", zap.String("client_id", id.String()))
	middleware.RespondWithSuccess(w, http.StatusOK, client, msgClientUpdated)
}

// Delete handles client removal
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.GetIdentifier(r.Context())

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		h.respondWithServiceError(w, err, middleware.MsgInternalError)
		return
	}

	h.logger.Info("Client deleted", zap.String("client_id", id.String()))
	middleware.RespondWithSuccess(w, http.StatusOK, nil, msgClientDeleted)
}

func (h *ClientHandler) respondWithServiceError(w http.ResponseWriter, err error, writeFailure string) {
	switch {
	case errors.Is(err, repository.ErrClientNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, msgClientNotFound)
	case errors.Is(err, repository.ErrEmailAlreadyExists):
		h.logger.Debug("Email already in use", zap.Error(err))
		middleware.RespondWithError(w, http.StatusConflict, msgEmailAlreadyExists)
	case errors.Is(err, service.ErrNotVisibleAfterWrite):
		h.logger.Error("Client not readable after write", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, writeFailure)
	default:
		h.logger.Error("Client operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.MsgInternalError)
	}
}
