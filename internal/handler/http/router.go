package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the settings the router needs besides handlers.
type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// FilesDir, when set, is served under /files to authenticated users.
	FilesDir string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	authHandler AuthHandler,
	employeeHandler EmployeeHandler,
	attendanceHandler AttendanceHandler,
	payrollHandler PayrollHandler,
	dashboardHandler DashboardHandler,
	reportHandler ReportHandler,
	backupHandler BackupHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Storage-Path"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/auth/change-password", authHandler.ChangePassword)
			r.Get("/users", authHandler.ListUsers)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", employeeHandler.ListEmployees)
				r.Post("/", employeeHandler.CreateEmployee)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", employeeHandler.GetEmployee)
					r.Put("/", employeeHandler.UpdateEmployee)
					r.Delete("/", employeeHandler.DeleteEmployee)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", attendanceHandler.List)
				r.Post("/", attendanceHandler.Create)
				r.Post("/range", attendanceHandler.CreateRange)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", attendanceHandler.Get)
					r.Put("/", attendanceHandler.Update)
					r.Delete("/", attendanceHandler.Delete)
				})
			})

			r.Route("/payroll/statements", func(r chi.Router) {
				r.Get("/", payrollHandler.ListStatements)
				r.Get("/{employeeID}", payrollHandler.GetStatement)
			})

			r.Get("/dashboard", dashboardHandler.GetDashboard)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/workbook", reportHandler.ExportWorkbook)
				r.Get("/statements/{employeeID}", reportHandler.ExportStatement)
			})

			r.Route("/backup", func(r chi.Router) {
				r.Get("/export", backupHandler.Export)
				r.Post("/restore", backupHandler.Restore)
				r.Route("/archives", func(r chi.Router) {
					r.Get("/", backupHandler.ListArchives)
					r.Post("/", backupHandler.Archive)
					r.Post("/{name}/restore", backupHandler.RestoreArchive)
				})
			})
		})
	})

	// Archives hold password hashes, so stored files are never public.
	if opts.FilesDir != "" {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(opts.FilesDir))))
		})
	}

	return r
}
