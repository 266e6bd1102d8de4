package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/settings"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/handler/http/response"
	json "github.com/goccy/go-json"
)

type SettingsHandler interface {
	GetPayrollConfig(w http.ResponseWriter, r *http.Request)
	UpdatePayrollConfig(w http.ResponseWriter, r *http.Request)
	GetRulesConfig(w http.ResponseWriter, r *http.Request)
	UpdateRulesConfig(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

func (h *settingsHandlerImpl) GetPayrollConfig(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetPayrollConfig(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settingsHandlerImpl) UpdatePayrollConfig(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePayrollConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settingsService.UpdatePayrollConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll config updated", result)
}

func (h *settingsHandlerImpl) GetRulesConfig(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetRulesConfig(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *settingsHandlerImpl) UpdateRulesConfig(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateRulesConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.settingsService.UpdateRulesConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance rules updated", result)
}
