package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/handler/http/response"
	json "github.com/goccy/go-json"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	EndBreak(w http.ResponseWriter, r *http.Request)
	Evaluate(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// decodeClockRequest accepts an empty body; the employee then comes from the token.
func decodeClockRequest(r *http.Request) (attendance.ClockRequest, error) {
	var req attendance.ClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	return req, nil
}

func (h *attendanceHandlerImpl) clock(w http.ResponseWriter, r *http.Request, action func(*http.Request, attendance.ClockRequest) (attendance.AttendanceResponse, error)) {
	req, err := decodeClockRequest(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := action(r, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, func(r *http.Request, req attendance.ClockRequest) (attendance.AttendanceResponse, error) {
		return h.attendanceService.ClockIn(r.Context(), req)
	})
}

func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, func(r *http.Request, req attendance.ClockRequest) (attendance.AttendanceResponse, error) {
		return h.attendanceService.ClockOut(r.Context(), req)
	})
}

func (h *attendanceHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, func(r *http.Request, req attendance.ClockRequest) (attendance.AttendanceResponse, error) {
		return h.attendanceService.StartBreak(r.Context(), req)
	})
}

func (h *attendanceHandlerImpl) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.clock(w, r, func(r *http.Request, req attendance.ClockRequest) (attendance.AttendanceResponse, error) {
		return h.attendanceService.EndBreak(r.Context(), req)
	})
}

func (h *attendanceHandlerImpl) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req attendance.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.Evaluate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	req := attendance.SummaryRequest{Date: r.URL.Query().Get("date")}

	result, err := h.attendanceService.Summary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
