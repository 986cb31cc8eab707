package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/shiftline/shiftline-backend-go/internal/handler/http/middleware"
	"github.com/shiftline/shiftline-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	timeclockHandler TimeclockHandler,
	timesheetHandler TimesheetHandler,
	notificationHandler NotificationHandler,
	sweepHandler SweepHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shiftline"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Sweep-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Operator surface, guarded by the sweep token.
		r.Post("/internal/sweep", sweepHandler.Run)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/timeclock", func(r chi.Router) {
				r.Post("/clock-in", timeclockHandler.ClockIn)
				r.Post("/clock-out", timeclockHandler.ClockOut)
				r.Post("/break/start", timeclockHandler.StartBreak)
				r.Post("/break/end", timeclockHandler.EndBreak)
				r.Get("/status", timeclockHandler.Status)

				r.Route("/entries", func(r chi.Router) {
					r.Get("/", timeclockHandler.Entries)
					r.Post("/", timeclockHandler.CreateManualEntry)

					// Reviewer only
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireReviewer)
						r.Post("/{id}/approve", timeclockHandler.ApproveManualEntry)
						r.Post("/{id}/reject", timeclockHandler.RejectManualEntry)
					})
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.Post("/", timesheetHandler.Generate)
				r.Get("/", timesheetHandler.List)
				r.Get("/{id}", timesheetHandler.Get)
				r.Post("/{id}/submit", timesheetHandler.Submit)

				// Reviewer only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireReviewer)
					r.Post("/{id}/approve", timesheetHandler.Approve)
					r.Post("/{id}/reject", timesheetHandler.Reject)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Get("/unread-count", notificationHandler.UnreadCount)
				r.Post("/mark-read", notificationHandler.MarkAsRead)
				r.Post("/mark-all-read", notificationHandler.MarkAllAsRead)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	return r
}
