package color_preset

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(service Service) *mux.Router {
	handler := NewHandler(service)
	r := mux.NewRouter()
	r.HandleFunc("/api/color-presets", handler.List).Methods("GET")
	r.HandleFunc("/api/color-presets", handler.Create).Methods("POST")
	r.HandleFunc("/api/color-presets/order", handler.Reorder).Methods("PUT")
	r.HandleFunc("/api/color-presets/{presetId}", handler.Update).Methods("PUT")
	r.HandleFunc("/api/color-presets/{presetId}", handler.Delete).Methods("DELETE")
	r.HandleFunc("/api/color-presets/{presetId}/position", handler.SetPosition).Methods("PUT")
	return r
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateListReorder(t *testing.T) {
	router := setupRouter(NewService(NewRepositoryStub()))

	var created []ColorPresetDTO
	for _, body := range []string{`{"label":"ES","color":"#FFA52F"}`, `{"label":"面接","color":"#4C9AFF"}`} {
		w := send(router, http.MethodPost, "/api/color-presets", body)
		require.Equal(t, http.StatusCreated, w.Code)
		var dto ColorPresetDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		created = append(created, dto)
	}

	w := send(router, http.MethodPut, "/api/color-presets/order", `{"ids":["`+created[1].ID+`","`+created[0].ID+`"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = send(router, http.MethodGet, "/api/color-presets", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []ColorPresetDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "面接", listed[0].Label)
	assert.Equal(t, 0, listed[0].OrderIndex)
	assert.Equal(t, "ES", listed[1].Label)
}

func TestHandler_SetPosition(t *testing.T) {
	service, created := setupService(t, "#111111", "#222222", "#333333")
	router := setupRouter(service)

	w := send(router, http.MethodPut, "/api/color-presets/"+created[0].ID.String()+"/position", `{"precedingId":"`+created[1].ID.String()+`"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var listed []ColorPresetDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	assert.Equal(t, created[1].ID.String(), listed[0].ID)
	assert.Equal(t, created[0].ID.String(), listed[1].ID)
}

func TestHandler_InvalidColor(t *testing.T) {
	router := setupRouter(NewService(NewRepositoryStub()))

	w := send(router, http.MethodPost, "/api/color-presets", `{"label":"x","color":"red"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid color preset")
}

func TestHandler_DeleteUnknown(t *testing.T) {
	router := setupRouter(NewService(NewRepositoryStub()))

	w := send(router, http.MethodDelete, "/api/color-presets/6f1c0c1e-8a0a-4f5e-9a53-0c7a3d2b1e10", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
