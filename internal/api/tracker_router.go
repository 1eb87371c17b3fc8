package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskforge/taskforge/internal/api/handler"
	"github.com/taskforge/taskforge/internal/api/middleware"
	"github.com/taskforge/taskforge/internal/core/ports"
)

// NewTrackerRouter builds the Echo instance for the task tracker service.
//
// Route guards follow the auth service's contract: create and reassign
// require only the remote token check; check additionally requires the local
// privilege check; the dashboard is an open reporting query.
func NewTrackerRouter(
	db *mongo.Database,
	rdb *redis.Client,
	tasks ports.TaskService,
	mirror ports.MirrorService,
	checker ports.TokenChecker,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tasktracker"))

	taskHandler := handler.NewTaskHandler(tasks)

	tokenGuard := middleware.RemoteToken(checker)
	privilegeGuard := middleware.Privileged(mirror)

	// --- Task routes ---
	g := e.Group("/task_tracker/task")
	g.POST("/create", taskHandler.Create, tokenGuard)
	g.POST("/check", taskHandler.Check, tokenGuard, privilegeGuard)
	g.POST("/reassign", taskHandler.Reassign, tokenGuard)
	g.POST("/status", taskHandler.AdvanceStatus, tokenGuard)
	g.POST("/dashboard", taskHandler.Dashboard)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
