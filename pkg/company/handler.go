package company

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jobcal/jobcal/internal/rest"
	log "github.com/sirupsen/logrus"
)

type CompanyDTO struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type NoteDTO struct {
	ID            string        `json:"id,omitempty"`
	CompanyID     string        `json:"companyId,omitempty"`
	Industry      string        `json:"industry"`
	JobType       string        `json:"jobType"`
	Location      string        `json:"location"`
	EmployeeCount string        `json:"employeeCount"`
	ListingStatus string        `json:"listingStatus"`
	BaseSalary    string        `json:"baseSalary"`
	WebTest       string        `json:"webTest"`
	WorkingHours  string        `json:"workingHours"`
	MyPageURL     string        `json:"mypageUrl"`
	LoginID       string        `json:"loginId"`
	Password      string        `json:"password"`
	LoginNotes    string        `json:"loginNotes"`
	CustomFields  []CustomField `json:"customFields"`
	FreeMemo      string        `json:"freeMemo"`
	UpdatedAt     string        `json:"updatedAt,omitempty"`
}

type ReferenceSiteDTO struct {
	ID        string `json:"id,omitempty"`
	MemoID    string `json:"memoId,omitempty"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	return &Handler{service: service, loc: loc}
}

// ListCompanies godoc
// @Summary List companies
// @Description Companies ordered by last update, newest first. Optional q filters by name.
// @Tags Company
// @Produce json
// @Param q query string false "Name filter"
// @Success 200 {array} CompanyDTO
// @Router /api/companies [get]
func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]CompanyDTO, 0, len(companies))
	for _, c := range companies {
		dtos = append(dtos, h.companyToDTO(c))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.companyToDTO(c))
}

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var dto CompanyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	created, err := h.service.Create(r.Context(), dto.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, h.companyToDTO(created))
}

func (h *Handler) RenameCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	var dto CompanyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	renamed, err := h.service.Rename(r.Context(), id, dto.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.companyToDTO(renamed))
}

func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	log.Debugf("deleted company %s", id)
	w.WriteHeader(http.StatusNoContent)
}

// GetNote godoc
// @Summary Get company note
// @Description Returns the note of the company. An empty note is created if none exists yet.
// @Tags Company
// @Produce json
// @Param companyId path string true "Company ID"
// @Success 200 {object} NoteDTO
// @Failure 404 {string} string "Company not found"
// @Router /api/companies/{companyId}/note [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	note, err := h.service.GetNote(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.noteToDTO(note))
}

func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	var dto NoteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return
	}
	note := noteFromDTO(dto)
	note.CompanyID = companyID
	updated, err := h.service.UpdateNote(r.Context(), note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.noteToDTO(updated))
}

func (h *Handler) ListReferenceSites(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	sites, err := h.service.ListReferenceSites(r.Context(), companyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	dtos := make([]ReferenceSiteDTO, 0, len(sites))
	for _, s := range sites {
		dtos = append(dtos, h.siteToDTO(s))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) AddReferenceSite(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	site, ok := decodeSite(w, r)
	if !ok {
		return
	}
	site.CompanyID = companyID
	created, err := h.service.AddReferenceSite(r.Context(), site)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, h.siteToDTO(created))
}

func (h *Handler) UpdateReferenceSite(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	siteID, ok := uuidFromPath(w, r, "siteId")
	if !ok {
		return
	}
	site, ok := decodeSite(w, r)
	if !ok {
		return
	}
	site.CompanyID = companyID
	site.ID = siteID
	updated, err := h.service.UpdateReferenceSite(r.Context(), site)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, h.siteToDTO(updated))
}

func (h *Handler) DeleteReferenceSite(w http.ResponseWriter, r *http.Request) {
	companyID, ok := uuidFromPath(w, r, "companyId")
	if !ok {
		return
	}
	siteID, ok := uuidFromPath(w, r, "siteId")
	if !ok {
		return
	}
	if err := h.service.DeleteReferenceSite(r.Context(), companyID, siteID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeSite(w http.ResponseWriter, r *http.Request) (ReferenceSite, bool) {
	var dto ReferenceSiteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body format", err.Error())
		return ReferenceSite{}, false
	}
	site := ReferenceSite{Name: dto.Name, URL: dto.URL}
	if dto.MemoID != "" {
		memoID, err := uuid.Parse(dto.MemoID)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid memo id", "Memo id must be a UUID")
			return ReferenceSite{}, false
		}
		site.MemoID = uuid.NullUUID{UUID: memoID, Valid: true}
	}
	return site, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrCompanyNotFound), errors.Is(err, ErrNoteNotFound), errors.Is(err, ErrReferenceSiteNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidCompany):
		rest.WriteError(w, http.StatusBadRequest, "Invalid company data", err.Error())
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

func (h *Handler) companyToDTO(c Company) CompanyDTO {
	return CompanyDTO{
		ID:        c.ID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt.In(h.loc).Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.In(h.loc).Format(time.RFC3339),
	}
}

func (h *Handler) noteToDTO(n Note) NoteDTO {
	dto := noteDTOFields(n)
	dto.ID = n.ID.String()
	dto.CompanyID = n.CompanyID.String()
	dto.UpdatedAt = n.UpdatedAt.In(h.loc).Format(time.RFC3339)
	return dto
}

func noteDTOFields(n Note) NoteDTO {
	customFields := n.CustomFields
	if customFields == nil {
		customFields = []CustomField{}
	}
	return NoteDTO{
		Industry:      n.Industry,
		JobType:       n.JobType,
		Location:      n.Location,
		EmployeeCount: n.EmployeeCount,
		ListingStatus: n.ListingStatus,
		BaseSalary:    n.BaseSalary,
		WebTest:       n.WebTest,
		WorkingHours:  n.WorkingHours,
		MyPageURL:     n.MyPageURL,
		LoginID:       n.LoginID,
		Password:      n.Password,
		LoginNotes:    n.LoginNotes,
		CustomFields:  customFields,
		FreeMemo:      n.FreeMemo,
	}
}

func noteFromDTO(dto NoteDTO) Note {
	return Note{
		Industry:      dto.Industry,
		JobType:       dto.JobType,
		Location:      dto.Location,
		EmployeeCount: dto.EmployeeCount,
		ListingStatus: dto.ListingStatus,
		BaseSalary:    dto.BaseSalary,
		WebTest:       dto.WebTest,
		WorkingHours:  dto.WorkingHours,
		MyPageURL:     dto.MyPageURL,
		LoginID:       dto.LoginID,
		Password:      dto.Password,
		LoginNotes:    dto.LoginNotes,
		CustomFields:  dto.CustomFields,
		FreeMemo:      dto.FreeMemo,
	}
}

func (h *Handler) siteToDTO(s ReferenceSite) ReferenceSiteDTO {
	dto := ReferenceSiteDTO{
		ID:        s.ID.String(),
		Name:      s.Name,
		URL:       s.URL,
		CreatedAt: s.CreatedAt.In(h.loc).Format(time.RFC3339),
	}
	if s.MemoID.Valid {
		dto.MemoID = s.MemoID.UUID.String()
	}
	return dto
}
