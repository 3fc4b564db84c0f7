package handlers

import (
	"errors"
	"net/http"

	"github.com/rohits-web03/worklog/internal/api/services"
	"github.com/rohits-web03/worklog/internal/logging"
	"github.com/rohits-web03/worklog/internal/models"
	"github.com/rohits-web03/worklog/internal/repositories"
	"github.com/rohits-web03/worklog/internal/utils"
)

type WorkingHoursRequest struct {
	DateFrom    string `json:"dateFrom" validate:"required,datetime=2006-01-02"`
	DateTo      string `json:"dateTo" validate:"required,datetime=2006-01-02"`
	HoursFrom   string `json:"hoursFrom" validate:"required,clock"`
	HoursTo     string `json:"hoursTo" validate:"required,clock"`
	Activity    string `json:"activity" validate:"required"`
	Description string `json:"description"`
}

type WorkingHoursResponse struct {
	Message      string              `json:"message"`
	WorkingHours models.WorkingHours `json:"workingHours"`
}

// WorkingHoursView is a listed entry: the stored row plus its activity's
// color and a duration recomputed from the date and time fields.
type WorkingHoursView struct {
	ID          uint              `json:"id"`
	UserID      uint              `json:"userId"`
	DateFrom    string            `json:"dateFrom"`
	DateTo      string            `json:"dateTo"`
	HoursFrom   string            `json:"hoursFrom"`
	HoursTo     string            `json:"hoursTo"`
	Activity    string            `json:"activity"`
	Description string            `json:"description"`
	Color       string            `json:"color"`
	Duration    services.Duration `json:"duration"`
}

// decodeWorkingHours reads and validates the body and resolves the span's
// duration in minutes.
func decodeWorkingHours(w http.ResponseWriter, r *http.Request, userID uint) (models.WorkingHours, bool) {
	var input WorkingHoursRequest
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteError(w, r, err)
		return models.WorkingHours{}, false
	}
	if err := utils.Validate(&input); err != nil {
		utils.WriteError(w, r, err)
		return models.WorkingHours{}, false
	}

	d, err := services.ComputeDuration(input.DateFrom, input.HoursFrom, input.DateTo, input.HoursTo)
	if err != nil {
		utils.WriteError(w, r, utils.ValidationError("Invalid date or time"))
		return models.WorkingHours{}, false
	}
	minutes := d.TotalMinutes()

	return models.WorkingHours{
		UserID:      userID,
		DateFrom:    input.DateFrom,
		DateTo:      input.DateTo,
		HoursFrom:   input.HoursFrom,
		HoursTo:     input.HoursTo,
		Activity:    input.Activity,
		Description: input.Description,
		Duration:    &minutes,
	}, true
}

// POST /workinghours
// CreateWorkingHours godoc
// @Summary Log working hours
// @Description The activity name is stored as given and is not checked against existing activities.
// @Tags WorkingHours
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body WorkingHoursRequest true "Entry"
// @Success 200 {object} WorkingHoursResponse
// @Failure 400 {object} utils.Message
// @Failure 500 {object} utils.Message
// @Router /workinghours [post]
func CreateWorkingHours(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	entry, ok := decodeWorkingHours(w, r, user.ID)
	if !ok {
		return
	}

	if err := repositories.CreateWorkingHours(r.Context(), &entry); err != nil {
		utils.WriteError(w, r, utils.InternalError(err))
		return
	}

	utils.JSONResponse(w, http.StatusOK, WorkingHoursResponse{
		Message:      "Working hours added successfully",
		WorkingHours: entry,
	})
}

// GET /workinghours
// ListWorkingHours godoc
// @Summary List the caller's working hours with color and duration
// @Description Entries whose activity name matches no activity are left out.
// @Tags WorkingHours
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} WorkingHoursView
// @Failure 500 {object} utils.Message
// @Router /workinghours [get]
func ListWorkingHours(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	rows, err := repositories.ListWorkingHoursWithColor(r.Context(), user.ID)
	if err != nil {
		utils.WriteError(w, r, utils.InternalError(err))
		return
	}

	views := make([]WorkingHoursView, 0, len(rows))
	for _, row := range rows {
		d, err := services.ComputeDuration(row.DateFrom, row.HoursFrom, row.DateTo, row.HoursTo)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Uint("entry_id", row.ID).Msg("stored entry has unparseable span")
		}
		views = append(views, WorkingHoursView{
			ID:          row.ID,
			UserID:      row.UserID,
			DateFrom:    row.DateFrom,
			DateTo:      row.DateTo,
			HoursFrom:   row.HoursFrom,
			HoursTo:     row.HoursTo,
			Activity:    row.Activity,
			Description: row.Description,
			Color:       row.Color,
			Duration:    d,
		})
	}
	utils.JSONResponse(w, http.StatusOK, views)
}

// GET /workinghours/{id}
// GetWorkingHours godoc
// @Summary Fetch one working hours entry
// @Tags WorkingHours
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Working hours id"
// @Success 200 {object} models.WorkingHours
// @Failure 404 {object} utils.Message "Working hour not found"
// @Failure 500 {object} utils.Message
// @Failure 401 {object} utils.Message
// @Failure 429 {object} utils.RateLimitBody
// @Router /workinghours/{id} [get]
func GetWorkingHours(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteError(w, r, utils.NotFoundError("Working hour not found"))
		return
	}

	entry, err := repositories.FindWorkingHours(r.Context(), id, user.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.WriteError(w, r, utils.NotFoundError("Working hour not found"))
		return
	}
	if err != nil {
		utils.WriteError(w, r, utils.InternalError(err))
		return
	}
	utils.JSONResponse(w, http.StatusOK, entry)
}

// POST /workinghours/update/{id}
// UpdateWorkingHours godoc
// @Summary Replace a working hours entry
// @Tags WorkingHours
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Working hours id"
// @Param body body WorkingHoursRequest true "Entry"
// @Success 200 {object} models.WorkingHours
// @Failure 400 {object} utils.Message
// @Failure 404 {object} utils.Message
// @Failure 500 {object} utils.Message
// @Router /workinghours/update/{id} [post]
func UpdateWorkingHours(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteError(w, r, utils.NotFoundError("Working hours not found"))
		return
	}
	entry, ok := decodeWorkingHours(w, r, user.ID)
	if !ok {
		return
	}
	entry.ID = id

	updated, err := repositories.UpdateWorkingHours(r.Context(), &entry)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.WriteError(w, r, utils.NotFoundError("Working hours not found"))
		return
	}
	if err != nil {
		utils.WriteError(w, r, utils.InternalError(err))
		return
	}
	utils.JSONResponse(w, http.StatusOK, updated)
}
