package handlers

import (
	"net/http"
	"strconv"

	"github.com/rohits-web03/worklog/internal/api/middleware"
	"github.com/rohits-web03/worklog/internal/models"
	"github.com/rohits-web03/worklog/internal/utils"
)

// currentUser fetches the authenticated user, answering 401 when the route
// was mounted without AuthMiddleware.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, r, utils.AuthError("API key is required"))
		return nil, false
	}
	return user, true
}

// pathID reads the {id} path segment as a positive integer.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
