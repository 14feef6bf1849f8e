package source

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// CatalogServer hosts the catalog CSV files of a directory so an HTTPFetcher
// can read them. Only files named by the catalog are served.
type CatalogServer struct {
	router  *chi.Mux
	dir     string
	catalog *Catalog
}

// NewCatalogServer creates a server for the catalog files under dir
func NewCatalogServer(dir string, catalog *Catalog) *CatalogServer {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	s := &CatalogServer{router: chi.NewRouter(), dir: dir, catalog: catalog}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *CatalogServer) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *CatalogServer) setupRoutes() {
	s.router.Get("/catalog", s.handleCatalog)
	s.router.Get("/{file}", s.handleFile)
}

// ServeHTTP implements http.Handler
func (s *CatalogServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type catalogEntry struct {
	Entry
	Available bool `json:"available"`
}

func (s *CatalogServer) handleCatalog(w http.ResponseWriter, r *http.Request) {
	entries := s.catalog.Entries()
	out := make([]catalogEntry, len(entries))
	for i, e := range entries {
		_, err := os.Stat(filepath.Join(s.dir, e.File))
		out[i] = catalogEntry{Entry: e, Available: err == nil}
	}
	render.JSON(w, r, map[string]interface{}{"sources": out})
}

func (s *CatalogServer) handleFile(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	if _, ok := s.catalog.ByFile(file); !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "unknown file"})
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	http.ServeFile(w, r, filepath.Join(s.dir, file))
}
