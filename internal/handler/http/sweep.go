package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/shiftline/shiftline-backend-go/internal/handler/http/response"
	"github.com/shiftline/shiftline-backend-go/internal/service/sweep"
)

// SweepHandler triggers the auto clock-out sweep on demand. The endpoint is
// for operators and schedulers, not end users: it is guarded by a shared
// token instead of a JWT.
type SweepHandler interface {
	Run(w http.ResponseWriter, r *http.Request)
}

type sweepHandlerImpl struct {
	sweepService *sweep.Service
	token        string
}

func NewSweepHandler(sweepService *sweep.Service, token string) SweepHandler {
	return &sweepHandlerImpl{sweepService: sweepService, token: token}
}

func (h *sweepHandlerImpl) Run(w http.ResponseWriter, r *http.Request) {
	provided := r.Header.Get("X-Sweep-Token")
	if h.token == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(h.token)) != 1 {
		response.Unauthorized(w, "Invalid sweep token")
		return
	}

	summary, err := h.sweepService.Run(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
