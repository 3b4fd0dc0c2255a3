package server

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"marinequote/internal/config"
	"marinequote/internal/session"
	"marinequote/internal/storage"
)

type Server struct {
	router    *gin.Engine
	cfg       config.Config
	db        *storage.DB
	workspace *session.Session
}

func New(cfg config.Config, db *storage.DB, workspace *session.Session) *Server {
	s := &Server{
		router:    gin.Default(),
		cfg:       cfg,
		db:        db,
		workspace: workspace,
	}

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	s.router.Use(sessions.Sessions("marinequote", store))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.POST("/api/login", s.login)
	s.router.POST("/api/logout", s.logout)

	api := s.router.Group("/api")
	{
		api.GET("/parts", s.listParts)
		api.POST("/reconcile", s.reconcile)
		api.GET("/selection", s.selection)
		api.PATCH("/selection/:id", s.updateSelection)
		api.GET("/selection/export", s.exportSelection)
		api.POST("/quotations", s.saveQuotation)
		api.GET("/quotations", s.listQuotations)
		api.GET("/quotations/:id/export", s.exportQuotation)

		admin := api.Group("/")
		admin.Use(AdminRequired())
		{
			admin.POST("/parts/import", s.importParts)
			admin.DELETE("/parts", s.clearParts)
		}
	}
}

func (s *Server) Run() error {
	return s.router.Run(s.cfg.ServerAddr)
}

// Router is exposed for httptest-driven handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
