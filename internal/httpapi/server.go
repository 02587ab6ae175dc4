// Package httpapi exposes the record and sheet stores over HTTP. Routes and
// response envelopes follow the original service surface: bare arrays for
// list endpoints, {ok, data} envelopes for mutations, {ok, error} on failure.
package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"

	"github.com/helpachild/recordbook/internal/export"
	"github.com/helpachild/recordbook/pkg/types"
)

// Server wires the HTTP routes to a Store and an Exporter.
type Server struct {
	app       *fiber.App
	store     types.Store
	exporter  *export.Exporter
	exportDir string
	log       zerolog.Logger
}

// New builds the fiber application with CORS, request logging, and all
// routes registered.
func New(store types.Store, exporter *export.Exporter, exportDir string, log zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "recordbook",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())
	app.Use(requestLogger(log))

	s := &Server{
		app:       app,
		store:     store,
		exporter:  exporter,
		exportDir: exportDir,
		log:       log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/", s.home)

	s.app.Post("/upload", s.createRecord)
	s.app.Get("/records", s.listRecords)
	s.app.Delete("/records", s.deleteAllRecords)
	s.app.Put("/records/:id", s.updateRecord)
	s.app.Delete("/records/:id", s.deleteRecord)

	s.app.Get("/export/excel", s.exportExcel)

	s.app.Get("/sheets", s.listSheets)
	s.app.Post("/sheets", s.createSheet)
	s.app.Patch("/sheets/:id", s.renameSheet)
	s.app.Delete("/sheets/:id", s.deleteSheet)
	s.app.Get("/sheets/:id/records", s.listSheetRecords)
	s.app.Post("/sheets/:id/records", s.createSheetRecord)
}

// App returns the underlying fiber application, used by tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("http server listening")
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) home(c *fiber.Ctx) error {
	return c.SendString("recordbook backend is running")
}

// requestLogger logs one line per request after the handler runs.
func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duration", time.Since(start)).
			Msg("request")
		return err
	}
}

// errorJSON writes the {ok:false, error} failure envelope.
func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"ok": false, "error": msg})
}
