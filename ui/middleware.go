package ui

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Logger(), gin.Recovery())
	s.router.Use(limitBody(s.config.Server.MaxUploadBytes()))

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to open embedded static files: %w", err)
	}
	log.Printf("[Static] Serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

// limitBody caps request bodies; the form re-posts the encoded upload, so the
// cap leaves room for the base64 overhead.
func limitBody(maxUpload int64) gin.HandlerFunc {
	limit := maxUpload*4/3 + 1<<20
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
