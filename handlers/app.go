package handlers

import (
	"net/http"
	"strings"

	"slam-scoring-system/middleware"
	"slam-scoring-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps is everything the HTTP layer talks to.
type Deps struct {
	Rooms        *services.RoomService
	Participants *services.ParticipantService
	Rounds       *services.RoundService
	Scores       *services.ScoreService
	Hub          *services.Hub
	Archive      ResultsArchive
	Gatherer     prometheus.Gatherer
}

type AppConfig struct {
	AllowedOrigins []string
	StaticDir      string // empty disables static serving
	AccessLog      bool
}

// NewApp builds the fiber app with every route mounted.
func NewApp(cfg AppConfig, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	if cfg.AccessLog {
		app.Use(logger.New())
	}

	origins := strings.Join(cfg.AllowedOrigins, ",")
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400,
	}))

	if deps.Gatherer != nil {
		SetupOpsRoutes(app, deps.Gatherer)
	}

	data := app.Group("/data")
	SetupRoomRoutes(data, &RoomHandler{Rooms: deps.Rooms, Rounds: deps.Rounds, Archive: deps.Archive})
	SetupParticipantRoutes(data, &ParticipantHandler{Participants: deps.Participants})
	SetupRoundRoutes(data, &RoundHandler{Rounds: deps.Rounds, Scores: deps.Scores})
	SetupScoreRoutes(data, &ScoreHandler{Scores: deps.Scores})
	if deps.Hub != nil {
		SetupLiveRoutes(data, deps.Hub)
	}

	// the web client is a single page app: unknown paths fall back to index.html
	if cfg.StaticDir != "" {
		app.Use(filesystem.New(filesystem.Config{
			Root:         http.Dir(cfg.StaticDir),
			Index:        "index.html",
			MaxAge:       3600,
			NotFoundFile: "index.html",
		}))
	}
	return app
}
