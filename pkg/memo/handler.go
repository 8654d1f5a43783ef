package memo

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jobcal/jobcal/internal/rest"
	"github.com/jobcal/jobcal/pkg/company"
)

type MemoDTO struct {
	ID        string `json:"id,omitempty"`
	Category  string `json:"category"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Deleted   bool   `json:"isDeleted"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

// ListMemos godoc
// @Summary List company memos
// @Description Newest first. Deleted memos are only included with includeDeleted=true.
// @Tags Memo
// @Produce json
// @Param companyId path string true "Company ID"
// @Param includeDeleted query bool false "Include deleted memos"
// @Success 200 {array} MemoDTO
// @Router /api/companies/{companyId}/memos [get]
func (h *Handler) ListMemos(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	includeDeleted := false
	if raw := r.URL.Query().Get("includeDeleted"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid includeDeleted", err.Error())
			return
		}
		includeDeleted = parsed
	}
	memos, err := h.service.List(r.Context(), companyID, includeDeleted)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]MemoDTO, 0, len(memos))
	for _, m := range memos {
		dtos = append(dtos, h.toDTO(m))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	m, ok := decodeMemo(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), companyID, m)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, h.toDTO(created))
}

func (h *Handler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	memoID, ok := uuidFromPath(w, r, "memoId")
	if !ok {
		return
	}
	m, ok := decodeMemo(w, r)
	if !ok {
		return
	}
	m.ID = memoID
	updated, err := h.service.Update(r.Context(), companyID, m)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.toDTO(updated))
}

func (h *Handler) DeleteMemo(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	memoID, ok := uuidFromPath(w, r, "memoId")
	if !ok {
		return
	}
	if _, err := h.service.Delete(r.Context(), companyID, memoID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RestoreMemo(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	memoID, ok := uuidFromPath(w, r, "memoId")
	if !ok {
		return
	}
	restored, err := h.service.Restore(r.Context(), companyID, memoID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.toDTO(restored))
}

func decodeMemo(w http.ResponseWriter, r *http.Request) (Memo, bool) {
	var dto MemoDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return Memo{}, false
	}
	return Memo{Category: Category(dto.Category), Title: dto.Title, Content: dto.Content}, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMemoNotFound), errors.Is(err, company.ErrCompanyNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidMemo):
		rest.WriteError(w, http.StatusBadRequest, "Invalid memo", err.Error())
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func uuidFromPath(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid "+name, name+" must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) toDTO(m Memo) MemoDTO {
	return MemoDTO{
		ID:        m.ID.String(),
		Category:  string(m.Category),
		Title:     m.Title,
		Content:   m.Content,
		Deleted:   m.Deleted,
		CreatedAt: m.CreatedAt.In(h.loc).Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.In(h.loc).Format(time.RFC3339),
	}
}
