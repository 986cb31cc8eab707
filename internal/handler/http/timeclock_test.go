package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/shiftline/shiftline-backend-go/internal/domain/timeclock"
)

type stubTimeclockService struct {
	timeclock.Service
	approved []string
}

func (s *stubTimeclockService) ApproveManualEntry(_ context.Context, id string) (timeclock.EventResponse, error) {
	s.approved = append(s.approved, id)
	return timeclock.EventResponse{ID: id}, nil
}

func newEntriesRouter(h TimeclockHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/entries/{id}/approve", h.ApproveManualEntry)
	return r
}

func TestApproveManualEntry_MalformedIDNeverReachesService(t *testing.T) {
	svc := &stubTimeclockService{}
	router := newEntriesRouter(NewTimeclockHandler(svc))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/entries/not-a-uuid/approve", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, svc.approved)
}

func TestApproveManualEntry_ValidIDPassesThrough(t *testing.T) {
	svc := &stubTimeclockService{}
	router := newEntriesRouter(NewTimeclockHandler(svc))

	id := "3f2c9a1e-5b4d-4c8e-9f2a-7d6e5b4c3a21"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/entries/"+id+"/approve", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{id}, svc.approved)
}
