package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/offboarding"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
)

type OffboardingHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Settle(w http.ResponseWriter, r *http.Request)
	GetSettlement(w http.ResponseWriter, r *http.Request)
}

type offboardingHandlerImpl struct {
	offboardingService offboarding.OffboardingService
}

func NewOffboardingHandler(offboardingService offboarding.OffboardingService) OffboardingHandler {
	return &offboardingHandlerImpl{offboardingService: offboardingService}
}

func (h *offboardingHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req offboarding.PreviewSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.offboardingService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *offboardingHandlerImpl) Settle(w http.ResponseWriter, r *http.Request) {
	var req offboarding.CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.offboardingService.Settle(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Final settlement recorded", result)
}

func (h *offboardingHandlerImpl) GetSettlement(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.offboardingService.GetSettlement(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
