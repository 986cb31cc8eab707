package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shiftline/shiftline-backend-go/internal/domain/timesheet"
	"github.com/shiftline/shiftline-backend-go/internal/handler/http/response"
)

// TimesheetHandler defines the timesheet handler interface
type TimesheetHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.Service
}

func NewTimesheetHandler(timesheetService timesheet.Service) TimesheetHandler {
	return &timesheetHandlerImpl{timesheetService: timesheetService}
}

func (h *timesheetHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req timesheet.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.timesheetService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Timesheet generated", resp)
}

func (h *timesheetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.timesheetService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *timesheetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter timesheet.ListFilter
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	resp, err := h.timesheetService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

func (h *timesheetHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	resp, err := h.timesheetService.Submit(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet submitted", resp)
}

// decodeReview reads the optional review body; approvals may omit it.
func decodeReview(r *http.Request, id string) (timesheet.ReviewRequest, error) {
	var req timesheet.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return timesheet.ReviewRequest{}, err
	}
	req.ID = id
	return req, nil
}

func (h *timesheetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	req, err := decodeReview(r, id)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.timesheetService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet approved", resp)
}

func (h *timesheetHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	req, err := decodeReview(r, id)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.timesheetService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timesheet rejected", resp)
}
