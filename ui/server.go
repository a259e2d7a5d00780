package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"gocompare/adapters/api"
	"gocompare/app"
	"gocompare/domain/table"
	"gocompare/internal/config"
	"gocompare/internal/dataset"
	"gocompare/internal/testkit"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static/* content/*.md
var embeddedFiles embed.FS

// APIPrefix is where the JSON API is mounted
const APIPrefix = "/api/v1"

// Server represents the web server for the difference analysis page
type Server struct {
	router    *gin.Engine
	templates *template.Template
	analysis  *app.AnalysisService
	loader    *dataset.Loader
	companion template.HTML
	config    *config.Config
}

// NewServer creates a new web server instance
func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.Server.GinMode)

	funcMap := template.FuncMap{
		// pstyle returns the inline style of a p-value cell.
		"pstyle": func(cell string) template.CSS { return template.CSS(table.PValueStyle(cell)) },
		"fixed":  func(v float64, prec int) string { return table.FormatFixed(v, prec) },
		"join":   strings.Join,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	companion, err := renderCompanion(embeddedFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to render companion page: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		templates: templates,
		analysis:  app.NewAnalysisService(cfg.Analysis.NormalityThreshold),
		loader: dataset.NewLoader(dataset.LoaderConfig{
			MaxFileSize: cfg.Server.MaxUploadBytes(),
			Demo:        testkit.DemoGeneratorConfig{Seed: cfg.Synthetic.Seed, Rows: cfg.Synthetic.Rows},
		}),
		companion: companion,
		config:    cfg,
	}
	s.router.MaxMultipartMemory = cfg.Server.MaxUploadBytes()

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/", s.handleIndex)
	s.router.POST("/download.csv", s.handleDownloadCSV)
	s.router.POST("/download.xlsx", s.handleDownloadXLSX)
	s.router.GET("/companion", s.handleCompanion)

	apiHandler := api.NewHandler(s.analysis, s.loader, s.config.Server.MaxUploadBytes())
	s.router.Any(APIPrefix+"/*path", gin.WrapH(http.StripPrefix(APIPrefix, apiHandler)))
}

// Handler exposes the router for tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on the given address
func (s *Server) Start(addr string) error {
	log.Printf("[Server] Listening on %s", addr)
	return s.router.Run(addr)
}
