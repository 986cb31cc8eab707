package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiftline/shiftline-backend-go/internal/domain/timeclock"
	"github.com/shiftline/shiftline-backend-go/internal/handler/http/response"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/validator"
)

// idParam reads the {id} path parameter and rejects anything that is not a
// UUID before it can reach the database as invalid input.
func idParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.ValidationError(w, map[string]string{"id": "must be a valid UUID"})
		return "", false
	}
	return id, true
}

// TimeclockHandler defines the time clock handler interface
type TimeclockHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	Entries(w http.ResponseWriter, r *http.Request)
	CreateManualEntry(w http.ResponseWriter, r *http.Request)
	ApproveManualEntry(w http.ResponseWriter, r *http.Request)
	RejectManualEntry(w http.ResponseWriter, r *http.Request)
}

type timeclockHandlerImpl struct {
	timeclockService timeclock.Service
}

func NewTimeclockHandler(timeclockService timeclock.Service) TimeclockHandler {
	return &timeclockHandlerImpl{timeclockService: timeclockService}
}

// decodeClockAction reads the optional clock action body. An empty body is a
// bare clock action without notes or coordinates.
func decodeClockAction(r *http.Request) (timeclock.ClockActionRequest, error) {
	var req timeclock.ClockActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return timeclock.ClockActionRequest{}, err
	}
	return req, nil
}

func (h *timeclockHandlerImpl) clockAction(w http.ResponseWriter, r *http.Request,
	action func(r *http.Request, req timeclock.ClockActionRequest) (timeclock.EventResponse, error),
	message string,
) {
	req, err := decodeClockAction(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := action(r, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, message, resp)
}

func (h *timeclockHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clockAction(w, r, func(r *http.Request, req timeclock.ClockActionRequest) (timeclock.EventResponse, error) {
		return h.timeclockService.ClockIn(r.Context(), req)
	}, "Clocked in")
}

func (h *timeclockHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clockAction(w, r, func(r *http.Request, req timeclock.ClockActionRequest) (timeclock.EventResponse, error) {
		return h.timeclockService.ClockOut(r.Context(), req)
	}, "Clocked out")
}

func (h *timeclockHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.clockAction(w, r, func(r *http.Request, req timeclock.ClockActionRequest) (timeclock.EventResponse, error) {
		return h.timeclockService.StartBreak(r.Context(), req)
	}, "Break started")
}

func (h *timeclockHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.clockAction(w, r, func(r *http.Request, req timeclock.ClockActionRequest) (timeclock.EventResponse, error) {
		return h.timeclockService.EndBreak(r.Context(), req)
	}, "Break ended")
}

func (h *timeclockHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	resp, err := h.timeclockService.Status(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *timeclockHandlerImpl) Entries(w http.ResponseWriter, r *http.Request) {
	filter := timeclock.EntriesFilter{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		filter.UserID = &userID
	}

	resp, err := h.timeclockService.Entries(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *timeclockHandlerImpl) CreateManualEntry(w http.ResponseWriter, r *http.Request) {
	var req timeclock.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.timeclockService.CreateManualEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Manual entry created", resp)
}

func (h *timeclockHandlerImpl) ApproveManualEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.timeclockService.ApproveManualEntry(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Manual entry approved", resp)
}

func (h *timeclockHandlerImpl) RejectManualEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var req timeclock.RejectEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	resp, err := h.timeclockService.RejectManualEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Manual entry rejected", resp)
}
