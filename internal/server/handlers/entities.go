package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/iudanet/offsync/internal/models"
	"github.com/iudanet/offsync/internal/server/storage"
	"github.com/iudanet/offsync/internal/validation"
	"github.com/iudanet/offsync/pkg/api"
)

// maxUpdateAttempts сколько раз повторяется обновление без ожидаемой версии при гонке
const maxUpdateAttempts = 3

// EntityHandler обрабатывает REST API сущностей
type EntityHandler struct {
	logger  *slog.Logger
	storage storage.EntityStorage
	newID   func() string
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(logger *slog.Logger, storage storage.EntityStorage) *EntityHandler {
	return &EntityHandler{
		logger:  logger,
		storage: storage,
		newID:   uuid.NewString,
	}
}

// Routes монтирует обработчики на /entities
func (h *EntityHandler) Routes(r chi.Router) {
	r.Route("/entities/{type}", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List обрабатывает GET /api/v1/entities/{type}
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "type")
	if err := validation.ValidateEntityType(entityType); err != nil {
		writeError(w, h.logger, http.StatusUnprocessableEntity, api.ErrCodeValidation, err.Error())
		return
	}

	entities, err := h.storage.ListEntities(r.Context(), entityType)
	if err != nil {
		h.logger.Error("Failed to list entities", "error", err, "entity_type", entityType)
		writeError(w, h.logger, http.StatusInternalServerError, api.ErrCodeInternal, "")
		return
	}

	resp := api.ListEntitiesResponse{Entities: make([]api.Entity, 0, len(entities))}
	for _, e := range entities {
		resp.Entities = append(resp.Entities, toAPIEntity(e))
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Create обрабатывает POST /api/v1/entities/{type}.
// Повторное создание с тем же id возвращает 409 с текущим состоянием.
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "type")

	var req api.CreateEntityRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ID == "" {
		req.ID = h.newID()
	}
	if !h.validate(w, entityType, req.ID, req.Data) {
		return
	}

	entity := &models.StoredEntity{Type: entityType, ID: req.ID, Data: req.Data}
	err := h.storage.CreateEntity(r.Context(), entity)
	if errors.Is(err, storage.ErrEntityExists) {
		h.conflict(w, r.Context(), entityType, req.ID)
		return
	}
	if err != nil {
		h.logger.Error("Failed to create entity", "error", err, "entity_type", entityType, "entity_id", req.ID)
		writeError(w, h.logger, http.StatusInternalServerError, api.ErrCodeInternal, "")
		return
	}

	h.logger.Info("Entity created", "entity_type", entityType, "entity_id", req.ID)
	writeJSON(w, h.logger, http.StatusCreated, toAPIEntity(entity))
}

// Get обрабатывает GET /api/v1/entities/{type}/{id}
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	entityType, id := chi.URLParam(r, "type"), chi.URLParam(r, "id")

	entity, err := h.storage.GetEntity(r.Context(), entityType, id)
	if err != nil {
		h.storageError(w, err, "get", entityType, id)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toAPIEntity(entity))
}

// Update обрабатывает PUT /api/v1/entities/{type}/{id}.
// Data накладывается на текущее значение (shallow merge). Если expected_version
// задан и не совпадает с текущей версией, возвращается 409.
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	entityType, id := chi.URLParam(r, "type"), chi.URLParam(r, "id")

	var req api.UpdateEntityRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.validate(w, entityType, id, req.Data) {
		return
	}

	ctx := r.Context()
	for attempt := 1; ; attempt++ {
		current, err := h.storage.GetEntity(ctx, entityType, id)
		if err != nil {
			h.storageError(w, err, "update", entityType, id)
			return
		}

		expected := current.Version
		if req.ExpectedVersion != nil {
			if *req.ExpectedVersion != current.Version {
				h.writeConflict(w, current)
				return
			}
			expected = *req.ExpectedVersion
		}

		merged, err := models.MergeData(current.Data, req.Data)
		if err != nil {
			writeError(w, h.logger, http.StatusUnprocessableEntity, api.ErrCodeValidation, err.Error())
			return
		}

		entity := &models.StoredEntity{Type: entityType, ID: id, Data: merged}
		err = h.storage.UpdateEntity(ctx, entity, expected)
		switch {
		case err == nil:
			h.logger.Info("Entity updated", "entity_type", entityType, "entity_id", id, "version", entity.Version)
			writeJSON(w, h.logger, http.StatusOK, toAPIEntity(entity))
			return
		case errors.Is(err, storage.ErrVersionConflict) && req.ExpectedVersion == nil && attempt < maxUpdateAttempts:
			// Без ожидаемой версии (last write wins) просто перечитываем
			continue
		case errors.Is(err, storage.ErrVersionConflict):
			h.conflict(w, ctx, entityType, id)
			return
		default:
			h.storageError(w, err, "update", entityType, id)
			return
		}
	}
}

// Delete обрабатывает DELETE /api/v1/entities/{type}/{id}?expected_version=N
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entityType, id := chi.URLParam(r, "type"), chi.URLParam(r, "id")
	ctx := r.Context()

	var expected *int64
	if raw := r.URL.Query().Get("expected_version"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("Invalid expected_version parameter", "expected_version", raw, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, api.ErrCodeBadRequest, "invalid expected_version")
			return
		}
		expected = &v
	}

	current, err := h.storage.GetEntity(ctx, entityType, id)
	if err != nil {
		h.storageError(w, err, "delete", entityType, id)
		return
	}
	version := current.Version
	if expected != nil {
		if *expected != current.Version {
			h.writeConflict(w, current)
			return
		}
		version = *expected
	}

	err = h.storage.DeleteEntity(ctx, entityType, id, version)
	if errors.Is(err, storage.ErrVersionConflict) {
		h.conflict(w, ctx, entityType, id)
		return
	}
	if err != nil {
		h.storageError(w, err, "delete", entityType, id)
		return
	}

	h.logger.Info("Entity deleted", "entity_type", entityType, "entity_id", id, "version", version)
	w.WriteHeader(http.StatusNoContent)
}

func (h *EntityHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.logger.Warn("Failed to decode request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, api.ErrCodeBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *EntityHandler) validate(w http.ResponseWriter, entityType, id string, data json.RawMessage) bool {
	if err := validation.ValidateEntityKey(entityType, id); err != nil {
		writeError(w, h.logger, http.StatusUnprocessableEntity, api.ErrCodeValidation, err.Error())
		return false
	}
	if len(data) == 0 || !json.Valid(data) || string(data) == "null" {
		writeError(w, h.logger, http.StatusUnprocessableEntity, api.ErrCodeValidation, "data must be a JSON document")
		return false
	}
	return true
}

// conflict перечитывает сущность и отвечает 409 с ее текущим состоянием
func (h *EntityHandler) conflict(w http.ResponseWriter, ctx context.Context, entityType, id string) {
	current, err := h.storage.GetEntity(ctx, entityType, id)
	if err != nil {
		h.storageError(w, err, "conflict", entityType, id)
		return
	}
	h.writeConflict(w, current)
}

func (h *EntityHandler) writeConflict(w http.ResponseWriter, current *models.StoredEntity) {
	h.logger.Info("Version conflict", "entity_type", current.Type, "entity_id", current.ID, "current_version", current.Version)
	writeJSON(w, h.logger, http.StatusConflict, api.VersionConflictResponse{
		Error:          api.ErrCodeVersionConflict,
		CurrentValue:   current.Data,
		CurrentVersion: current.Version,
	})
}

func (h *EntityHandler) storageError(w http.ResponseWriter, err error, op, entityType, id string) {
	if errors.Is(err, storage.ErrEntityNotFound) {
		writeError(w, h.logger, http.StatusNotFound, api.ErrCodeNotFound, "")
		return
	}
	h.logger.Error("Storage error", "op", op, "error", err, "entity_type", entityType, "entity_id", id)
	writeError(w, h.logger, http.StatusInternalServerError, api.ErrCodeInternal, "")
}
