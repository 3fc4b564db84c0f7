package handlers

import (
	"fmt"
	"net/http"

	"github.com/rohits-web03/worklog/internal/api/services"
	"github.com/rohits-web03/worklog/internal/logging"
	"github.com/rohits-web03/worklog/internal/utils"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	APIKey  string `json:"apiKey"`
}

// POST /register
// RegisterUser godoc
// @Summary Register a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "New user"
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} utils.Message "Missing password or duplicate email"
// @Failure 500 {object} utils.Message
// @Router /register [post]
func RegisterUser(w http.ResponseWriter, r *http.Request) {
	var input RegisterRequest
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if err := utils.Validate(&input); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	user, err := services.Register(r.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().Uint("user_id", user.ID).Str("username", user.Username).Msg("registered user")
	utils.JSONResponse(w, http.StatusOK, RegisterResponse{
		Message: fmt.Sprintf("Registered user: %s", user.Username),
		Email:   user.Email,
	})
}

// POST /login
// LoginUser godoc
// @Summary Log in and obtain an API key
// @Description Issues a new API key, replacing the previous one.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} utils.Message "Invalid password"
// @Failure 404 {object} utils.Message "User not found"
// @Failure 500 {object} utils.Message
// @Router /login [post]
func LoginUser(w http.ResponseWriter, r *http.Request) {
	var input LoginRequest
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	apiKey, err := services.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, LoginResponse{
		Message: fmt.Sprintf("Logged in user with email: %s", input.Email),
		APIKey:  apiKey,
	})
}

// POST /logout
// Logout godoc
// @Summary Revoke the current API key
// @Tags Auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Message
// @Failure 401 {object} utils.Message
// @Failure 500 {object} utils.Message
// @Router /logout [post]
func Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := services.Logout(r.Context(), user.ID); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Message{Message: "Logged out successfully"})
}

// GET /test
// TestRoute godoc
// @Summary Check that the API key works
// @Tags Auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Message
// @Failure 401 {object} utils.Message
// @Failure 429 {object} utils.RateLimitBody
// @Router /test [get]
func TestRoute(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusOK, utils.Message{Message: "Test route is working!"})
}
