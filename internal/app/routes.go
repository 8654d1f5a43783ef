package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Events
	r.HandleFunc("/api/events", deps.EventHandler.ListEvents).Methods("GET")
	r.HandleFunc("/api/events", deps.EventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/events/{eventId}", deps.EventHandler.GetEvent).Methods("GET")
	r.HandleFunc("/api/events/{eventId}", deps.EventHandler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/events/{eventId}", deps.EventHandler.DeleteEvent).Methods("DELETE")

	// Calendar views
	r.HandleFunc("/api/calendar/day", deps.CalendarHandler.GetDay).Methods("GET")
	r.HandleFunc("/api/calendar/today", deps.CalendarHandler.GetToday).Methods("GET")
	r.HandleFunc("/api/calendar/month", deps.CalendarHandler.GetMonth).Methods("GET")
	r.HandleFunc("/api/calendar/feed.ics", deps.IcsHandler.Feed).Methods("GET")

	// Color presets
	r.HandleFunc("/api/color-presets", deps.ColorPresetHandler.List).Methods("GET")
	r.HandleFunc("/api/color-presets", deps.ColorPresetHandler.Create).Methods("POST")
	r.HandleFunc("/api/color-presets/order", deps.ColorPresetHandler.Reorder).Methods("PUT")
	r.HandleFunc("/api/color-presets/{presetId}", deps.ColorPresetHandler.Update).Methods("PUT")
	r.HandleFunc("/api/color-presets/{presetId}", deps.ColorPresetHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/color-presets/{presetId}/position", deps.ColorPresetHandler.SetPosition).Methods("PUT")

	// Companies
	r.HandleFunc("/api/companies", deps.CompanyHandler.ListCompanies).Methods("GET")
	r.HandleFunc("/api/companies", deps.CompanyHandler.CreateCompany).Methods("POST")
	r.HandleFunc("/api/companies/{companyId}", deps.CompanyHandler.GetCompany).Methods("GET")
	r.HandleFunc("/api/companies/{companyId}", deps.CompanyHandler.RenameCompany).Methods("PUT")
	r.HandleFunc("/api/companies/{companyId}", deps.CompanyHandler.DeleteCompany).Methods("DELETE")
	r.HandleFunc("/api/companies/{companyId}/note", deps.CompanyHandler.GetNote).Methods("GET")
	r.HandleFunc("/api/companies/{companyId}/note", deps.CompanyHandler.UpdateNote).Methods("PUT")
	r.HandleFunc("/api/companies/{companyId}/sites", deps.CompanyHandler.ListReferenceSites).Methods("GET")
	r.HandleFunc("/api/companies/{companyId}/sites", deps.CompanyHandler.AddReferenceSite).Methods("POST")
	r.HandleFunc("/api/companies/{companyId}/sites/{siteId}", deps.CompanyHandler.UpdateReferenceSite).Methods("PUT")
	r.HandleFunc("/api/companies/{companyId}/sites/{siteId}", deps.CompanyHandler.DeleteReferenceSite).Methods("DELETE")

	// Memos
	r.HandleFunc("/api/companies/{companyId}/memos", deps.MemoHandler.ListMemos).Methods("GET")
	r.HandleFunc("/api/companies/{companyId}/memos", deps.MemoHandler.CreateMemo).Methods("POST")
	r.HandleFunc("/api/companies/{companyId}/memos/{memoId}", deps.MemoHandler.UpdateMemo).Methods("PUT")
	r.HandleFunc("/api/companies/{companyId}/memos/{memoId}", deps.MemoHandler.DeleteMemo).Methods("DELETE")
	r.HandleFunc("/api/companies/{companyId}/memos/{memoId}/restore", deps.MemoHandler.RestoreMemo).Methods("POST")

	// Selection tracking
	selection := r.PathPrefix("/api/companies/{companyId}/selection").Subrouter()
	selection.HandleFunc("/events", deps.SelectionHandler.ListEvents).Methods("GET")
	selection.HandleFunc("/events", deps.SelectionHandler.CreateEvent).Methods("POST")
	selection.HandleFunc("/events/{selectionEventId}", deps.SelectionHandler.UpdateEvent).Methods("PUT")
	selection.HandleFunc("/events/{selectionEventId}", deps.SelectionHandler.DeleteEvent).Methods("DELETE")
	selection.HandleFunc("/events/{selectionEventId}/calendar", deps.SelectionHandler.SyncCalendarEvent).Methods("POST")
	selection.HandleFunc("/progress", deps.SelectionHandler.ListProgress).Methods("GET")
	selection.HandleFunc("/progress", deps.SelectionHandler.AddProgress).Methods("POST")
	selection.HandleFunc("/progress/{progressId}", deps.SelectionHandler.UpdateProgress).Methods("PUT")
	selection.HandleFunc("/progress/{progressId}", deps.SelectionHandler.DeleteProgress).Methods("DELETE")

	// Notifications
	r.HandleFunc("/api/notifications/upcoming", deps.NotificationHandler.Upcoming).Methods("GET")
}
