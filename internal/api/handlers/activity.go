package handlers

import (
	"errors"
	"net/http"

	"github.com/rohits-web03/worklog/internal/logging"
	"github.com/rohits-web03/worklog/internal/models"
	"github.com/rohits-web03/worklog/internal/repositories"
	"github.com/rohits-web03/worklog/internal/utils"
)

type ActivityRequest struct {
	Activity    string `json:"activity" validate:"required,max=255"`
	Description string `json:"description"`
	Color       string `json:"color" validate:"max=32"`
}

type ActivityResponse struct {
	Message  string          `json:"message"`
	Activity models.Activity `json:"activity"`
}

func decodeActivity(w http.ResponseWriter, r *http.Request) (ActivityRequest, bool) {
	var input ActivityRequest
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteError(w, r, err)
		return input, false
	}
	if err := utils.Validate(&input); err != nil {
		utils.WriteError(w, r, err)
		return input, false
	}
	return input, true
}

// POST /activities
// CreateActivity godoc
// @Summary Create an activity
// @Tags Activities
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ActivityRequest true "Activity"
// @Success 200 {object} ActivityResponse
// @Failure 500 {object} utils.Message "Storage failure, including a duplicate activity name"
// @Router /activities [post]
func CreateActivity(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	input, ok := decodeActivity(w, r)
	if !ok {
		return
	}

	activity := models.Activity{
		UserID:      user.ID,
		Name:        input.Activity,
		Description: input.Description,
		Color:       input.Color,
	}
	if err := repositories.CreateActivity(r.Context(), &activity); err != nil {
		utils.WriteError(w, r, utils.InternalError(err))
		return
	}

	utils.JSONResponse(w, http.StatusOK, ActivityResponse{
		Message:  "Activity added successfully",
		Activity: activity,
	})
}

// GET /activities
// ListActivities godoc
// @Summary List the caller's activities
// @Tags Activities
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.Activity
// @Failure 500 {object} utils.Message
// @Router /activities [get]
func ListActivities(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	activities, err := repositories.ListActivities(r.Context(), user.ID)
	if err != nil {
		utils.WriteError(w, r, utils.InternalError(err))
		return
	}
	utils.JSONResponse(w, http.StatusOK, activities)
}

// GET /activities/{id}
// GetActivity godoc
// @Summary Fetch one of the caller's activities
// @Tags Activities
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Activity id"
// @Success 200 {object} models.Activity
// @Failure 404 {object} utils.Message
// @Failure 500 {object} utils.Message
// @Router /activities/{id} [get]
func GetActivity(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteError(w, r, utils.NotFoundError("Activity not found"))
		return
	}

	activity, err := repositories.FindActivity(r.Context(), id, user.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		utils.WriteError(w, r, utils.NotFoundError("Activity not found"))
		return
	}
	if err != nil {
		utils.WriteError(w, r, utils.InternalError(err))
		return
	}
	utils.JSONResponse(w, http.StatusOK, activity)
}

// POST /activities/{id}
// UpsertActivity godoc
// @Summary Create or update an activity under a given id
// @Description Updates the caller's activity with this id, or inserts a new one using exactly this id.
// @Tags Activities
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Activity id"
// @Param body body ActivityRequest true "Activity"
// @Success 200 {object} ActivityResponse
// @Failure 400 {object} utils.Message
// @Failure 500 {object} utils.Message
// @Router /activities/{id} [post]
func UpsertActivity(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r)
	if !ok {
		utils.WriteError(w, r, utils.ValidationError("Invalid activity id"))
		return
	}
	input, ok := decodeActivity(w, r)
	if !ok {
		return
	}

	activity := models.Activity{
		ID:          id,
		UserID:      user.ID,
		Name:        input.Activity,
		Description: input.Description,
		Color:       input.Color,
	}
	created, err := repositories.UpsertActivity(r.Context(), &activity)
	if err != nil {
		utils.WriteError(w, r, utils.InternalError(err))
		return
	}

	message := "Activity updated successfully"
	if created {
		message = "Activity added successfully"
		logging.Ctx(r.Context()).Debug().Uint("activity_id", id).Uint("user_id", user.ID).Msg("activity inserted by upsert")
	}
	utils.JSONResponse(w, http.StatusOK, ActivityResponse{Message: message, Activity: activity})
}
