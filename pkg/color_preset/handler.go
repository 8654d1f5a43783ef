package color_preset

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jobcal/jobcal/internal/rest"
	log "github.com/sirupsen/logrus"
)

type ColorPresetDTO struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Color      string `json:"color"`
	OrderIndex int    `json:"orderIndex"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func ToDTO(p ColorPreset) ColorPresetDTO {
	return ColorPresetDTO{
		ID:         p.ID.String(),
		Label:      p.Label,
		Color:      p.Color,
		OrderIndex: p.OrderIndex,
	}
}

func toDTOs(presets []ColorPreset) []ColorPresetDTO {
	dtos := make([]ColorPresetDTO, 0, len(presets))
	for _, p := range presets {
		dtos = append(dtos, ToDTO(p))
	}
	return dtos
}

// List godoc
// @Summary List color presets
// @Tags ColorPreset
// @Produce json
// @Success 200 {array} ColorPresetDTO
// @Router /api/color-presets [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	presets, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(presets))
}

// Create godoc
// @Summary Create a color preset
// @Description The preset is placed after all existing presets
// @Tags ColorPreset
// @Accept json
// @Produce json
// @Success 201 {object} ColorPresetDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/color-presets [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto ColorPresetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	created, err := h.service.Create(r.Context(), ColorPreset{Label: dto.Label, Color: dto.Color})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ToDTO(created))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["presetId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid color preset id", "")
		return
	}
	var dto ColorPresetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	updated, err := h.service.Update(r.Context(), ColorPreset{ID: id, Label: dto.Label, Color: dto.Color})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, ToDTO(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["presetId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid color preset id", "")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder godoc
// @Summary Reorder color presets
// @Tags ColorPreset
// @Accept json
// @Produce json
// @Param order body object{ids=[]string} true "Every preset id in the new order"
// @Success 200 {array} ColorPresetDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/color-presets/order [put]
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	var request struct {
		IDs []uuid.UUID `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "ids must be a list of UUIDs")
		return
	}
	log.Debugf("reordering %d color presets", len(request.IDs))
	presets, err := h.service.Reorder(r.Context(), request.IDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(presets))
}

func (h *Handler) SetPosition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["presetId"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid color preset id", "")
		return
	}
	var request struct {
		PrecedingID *uuid.UUID `json:"precedingId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", "")
		return
	}
	var preceding uuid.NullUUID
	if request.PrecedingID != nil {
		preceding = uuid.NullUUID{UUID: *request.PrecedingID, Valid: true}
	}
	presets, err := h.service.MoveAfter(r.Context(), id, preceding)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(presets))
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrColorPresetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidColorPreset):
		rest.WriteError(w, http.StatusBadRequest, "Invalid color preset", "color must be a #RRGGBB hex value")
	case errors.Is(err, ErrInvalidOrder):
		rest.WriteError(w, http.StatusBadRequest, "Invalid order", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
