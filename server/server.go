package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/multiflexhq/multiflex/agent"
	"github.com/multiflexhq/multiflex/htmlgen"
	"github.com/multiflexhq/multiflex/rag"
)

// Server is the HTTP and WebSocket surface: component synthesis, document
// upload and the iterative HTML session socket.
type Server struct {
	app  *fiber.App
	port string
}

func New(port, corsOrigins string, uiAgent *agent.UIAgent, store *rag.Store, chunker *rag.Chunker, controller *htmlgen.Controller) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	registerRoutes(app, uiAgent, store, chunker, controller)

	return &Server{app: app, port: port}
}

func registerRoutes(app *fiber.App, uiAgent *agent.UIAgent, store *rag.Store, chunker *rag.Chunker, controller *htmlgen.Controller) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "MultiFlex API is running"})
	})

	api := app.Group("/api")

	agentHandler := &AgentHandler{uiAgent: uiAgent}
	api.Post("/agent", agentHandler.Generate)

	uploadHandler := &UploadHandler{store: store, chunker: chunker}
	api.Post("/upload", uploadHandler.Upload)
	api.Get("/documents/:userId", uploadHandler.Documents)

	wsHandler := &SessionHandler{controller: controller}
	app.Get("/ws/generate", wsHandler.Upgrade, wsHandler.Serve())
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	return s.app.Listen(":" + s.port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
