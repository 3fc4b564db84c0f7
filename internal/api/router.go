package api

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/rohits-web03/worklog/docs"
	"github.com/rohits-web03/worklog/internal/api/handlers"
	"github.com/rohits-web03/worklog/internal/api/middleware"
	"github.com/rohits-web03/worklog/internal/config"
)

func SetupRouter() http.Handler {
	mux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	mux.HandleFunc("POST /register", handlers.RegisterUser)
	mux.HandleFunc("POST /login", handlers.LoginUser)

	// ---------- PROTECTED ROUTES ----------
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.AuthMiddleware(h))
	}

	protect("POST /logout", handlers.Logout)
	protect("GET /test", handlers.TestRoute)

	protect("POST /calculate-duration", handlers.CalculateDuration)
	protect("GET /calculate-total-working-hours", handlers.CalculateTotalWorkingHours)

	protect("POST /activities", handlers.CreateActivity)
	protect("GET /activities", handlers.ListActivities)
	protect("GET /activities/{id}", handlers.GetActivity)
	protect("POST /activities/{id}", handlers.UpsertActivity)

	protect("POST /workinghours", handlers.CreateWorkingHours)
	protect("GET /workinghours", handlers.ListWorkingHours)
	protect("GET /workinghours/{id}", handlers.GetWorkingHours)
	protect("POST /workinghours/update/{id}", handlers.UpdateWorkingHours)

	log.Debug().Msg("Router initialized")
	handler := c.Handler(mux)
	handler = middleware.Metrics(handler)
	handler = middleware.Logger(handler)
	handler = middleware.RequestID(handler)
	return handler
}
