package handlers

import (
	"net/http"
	"time"

	"github.com/rohits-web03/worklog/internal/api/services"
	"github.com/rohits-web03/worklog/internal/utils"
)

type DurationRequest struct {
	DateFrom  string `json:"dateFrom" validate:"required,datetime=2006-01-02"`
	DateTo    string `json:"dateTo" validate:"required,datetime=2006-01-02"`
	HoursFrom string `json:"hoursFrom" validate:"required,clock"`
	HoursTo   string `json:"hoursTo" validate:"required,clock"`
}

// POST /calculate-duration
// CalculateDuration godoc
// @Summary Compute the hours and minutes between two date/time points
// @Tags Duration
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body DurationRequest true "Span"
// @Success 200 {object} services.Duration
// @Failure 400 {object} utils.Message
// @Router /calculate-duration [post]
func CalculateDuration(w http.ResponseWriter, r *http.Request) {
	var input DurationRequest
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if err := utils.Validate(&input); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	d, err := services.ComputeDuration(input.DateFrom, input.HoursFrom, input.DateTo, input.HoursTo)
	if err != nil {
		utils.WriteError(w, r, utils.ValidationError("Invalid date or time"))
		return
	}
	utils.JSONResponse(w, http.StatusOK, d)
}

// GET /calculate-total-working-hours
// CalculateTotalWorkingHours godoc
// @Summary Total logged hours for a day and the current week, month and year
// @Description The day defaults to today; week, month and year always refer to the current date.
// @Tags Duration
// @Produce json
// @Security ApiKeyAuth
// @Param date query string false "Day to total (YYYY-MM-DD)"
// @Success 200 {object} services.Totals
// @Failure 400 {object} utils.Message
// @Failure 500 {object} utils.Message
// @Router /calculate-total-working-hours [get]
func CalculateTotalWorkingHours(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	ref := services.Today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			utils.WriteError(w, r, utils.ValidationError("Date must be a date in YYYY-MM-DD format"))
			return
		}
		ref = parsed
	}

	totals, err := services.AggregateTotals(r.Context(), user.ID, ref)
	if err != nil {
		utils.WriteError(w, r, utils.InternalError(err))
		return
	}
	utils.JSONResponse(w, http.StatusOK, totals)
}
