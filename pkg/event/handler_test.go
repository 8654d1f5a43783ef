package event

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jobcal/jobcal/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) (*mux.Router, *ServiceImpl) {
	repo := NewRepositoryStub()
	service := NewService(repo, event_bus.NewEventBus())
	handler := NewHandler(service, tokyo)
	router := mux.NewRouter()
	router.HandleFunc("/api/events", handler.ListEvents).Methods("GET")
	router.HandleFunc("/api/events", handler.CreateEvent).Methods("POST")
	router.HandleFunc("/api/events/{eventId}", handler.GetEvent).Methods("GET")
	router.HandleFunc("/api/events/{eventId}", handler.UpdateEvent).Methods("PUT")
	router.HandleFunc("/api/events/{eventId}", handler.DeleteEvent).Methods("DELETE")
	return router, service
}

func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateEvent(t *testing.T) {
	router, service := setupHandlerTest(t)
	body := EventDTO{
		Title:      "Group discussion",
		StartAt:    "2024-05-10T10:00",
		EndAt:      "2024-05-10T12:00",
		DeadlineAt: "2024-05-01",
		PreparationDates: []PreparationDateDTO{
			{Date: "2024-05-08T19:00", Title: "Read IR"},
		},
		Recurrence: RecurrenceDTO{Type: "weekly", Interval: 2, EndType: "count", EndCount: 3},
		Notifications: []NotificationConfig{
			{Type: NotifyCustom, CustomValue: 1, CustomUnit: UnitDay, ReferenceTime: ReferenceStart},
		},
	}

	w := doRequest(router, http.MethodPost, "/api/events", body)

	require.Equal(t, http.StatusCreated, w.Code)
	var created EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.Equal(t, "2024-05-10T10:00:00+09:00", created.StartAt)
	assert.Equal(t, "2024-05-01T00:00:00+09:00", created.DeadlineAt)
	assert.Equal(t, "weekly", created.Recurrence.Type)
	assert.Equal(t, 2, created.Recurrence.Interval)
	assert.Equal(t, "count", created.Recurrence.EndType)
	require.Len(t, created.PreparationDates, 1)
	assert.NotEmpty(t, created.PreparationDates[0].ID)
	require.Len(t, created.Notifications, 1)
	assert.Equal(t, UnitDay, created.Notifications[0].CustomUnit)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	stored, err := service.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 10, 1, 0, 0, 0, time.UTC).Equal(stored.StartAt))
}

func TestHandler_CreateEvent_InvalidTimestamp(t *testing.T) {
	router, _ := setupHandlerTest(t)

	w := doRequest(router, http.MethodPost, "/api/events", EventDTO{
		Title:   "Broken",
		StartAt: "next tuesday",
		EndAt:   "2024-05-10T12:00",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResponse struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
	assert.Equal(t, "Invalid event", errResponse.Error)
	assert.Contains(t, errResponse.Details, "startAt")
}

func TestHandler_CreateEvent_UnknownRecurrence(t *testing.T) {
	router, _ := setupHandlerTest(t)

	w := doRequest(router, http.MethodPost, "/api/events", EventDTO{
		Title:      "Broken",
		StartAt:    "2024-05-10",
		EndAt:      "2024-05-10",
		Recurrence: RecurrenceDTO{Type: "hourly"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CreateEvent_MissingTitle(t *testing.T) {
	router, _ := setupHandlerTest(t)

	w := doRequest(router, http.MethodPost, "/api/events", EventDTO{
		StartAt: "2024-05-10",
		EndAt:   "2024-05-10",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title is required")
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	router, _ := setupHandlerTest(t)
	w := doRequest(router, http.MethodPost, "/api/events", EventDTO{
		Title:   "Info session",
		StartAt: "2024-06-01T13:00:00+09:00",
		EndAt:   "2024-06-01T14:00:00+09:00",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))

	created.Title = "Info session (online)"
	created.MeetingURL = "https://meet.example.com/abc"
	w = doRequest(router, http.MethodPut, "/api/events/"+created.ID, created)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/events/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&fetched))
	assert.Equal(t, "Info session (online)", fetched.Title)
	assert.Equal(t, "https://meet.example.com/abc", fetched.MeetingURL)
	assert.Equal(t, "none", fetched.Recurrence.Type)

	w = doRequest(router, http.MethodDelete, "/api/events/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, http.MethodGet, "/api/events/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_InvalidId(t *testing.T) {
	router, _ := setupHandlerTest(t)

	w := doRequest(router, http.MethodGet, "/api/events/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListEvents(t *testing.T) {
	router, _ := setupHandlerTest(t)
	for _, start := range []string{"2024-06-03T10:00", "2024-06-01T10:00"} {
		w := doRequest(router, http.MethodPost, "/api/events", EventDTO{Title: "ES", StartAt: start, EndAt: start})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doRequest(router, http.MethodGet, "/api/events", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var events []EventDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&events))
	require.Len(t, events, 2)
	assert.Equal(t, "2024-06-01T10:00:00+09:00", events[0].StartAt)
}
