package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/costrate"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/handler/http/response"
)

type CostRateHandler interface {
	GetRates(w http.ResponseWriter, r *http.Request)
	SetDefaultRate(w http.ResponseWriter, r *http.Request)
	SetFunctionRates(w http.ResponseWriter, r *http.Request)
}

type costRateHandlerImpl struct {
	costRateService costrate.CostRateService
}

func NewCostRateHandler(costRateService costrate.CostRateService) CostRateHandler {
	return &costRateHandlerImpl{
		costRateService: costRateService,
	}
}

// GetRates handles GET /settings/cost-rates
func (h *costRateHandlerImpl) GetRates(w http.ResponseWriter, r *http.Request) {
	result, err := h.costRateService.GetRates(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SetDefaultRate handles PUT /settings/cost-rates/default
func (h *costRateHandlerImpl) SetDefaultRate(w http.ResponseWriter, r *http.Request) {
	var req costrate.SetDefaultRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", map[string]string{"value": costrate.ErrInvalidRate.Error()})
		return
	}

	result, err := h.costRateService.SetDefaultRate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Default cost rate updated", result)
}

// SetFunctionRates handles PUT /settings/cost-rates/functions
func (h *costRateHandlerImpl) SetFunctionRates(w http.ResponseWriter, r *http.Request) {
	var req costrate.SetFunctionRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", map[string]string{"rates": costrate.ErrInvalidRate.Error()})
		return
	}

	result, err := h.costRateService.SetFunctionRates(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Function cost rates updated", result)
}
