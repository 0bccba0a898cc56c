package api

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"goeda/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Page is what the server presents: the findings and the figure page of one run
type Page struct {
	Title     string
	Lines     []string
	PlotsHTML []byte
}

// Server presents the latest run over HTTP
type Server struct {
	router *chi.Mux
	logger *internal.Logger

	mu   sync.RWMutex
	page Page
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
  <head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
      body { font-family: sans-serif; max-width: 960px; margin: 2em auto; line-height: 1.45; }
      nav a { margin-right: 1em; }
    </style>
  </head>
  <body>
    <nav><a href="/">Resumo</a>{{if .HasPlots}}<a href="/graficos">Gráficos</a>{{end}}<a href="/resumo.txt">Texto</a></nav>
    {{.Body}}
  </body>
</html>
`))

// NewServer creates a server with nothing to present yet
func NewServer() *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: internal.DefaultLogger.With("PresentationServer"),
	}
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Get("/", s.handleIndex)
	s.router.Get("/graficos", s.handlePlots)
	s.router.Get("/resumo.txt", s.handleText)
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return s
}

// Publish replaces the presented run
func (s *Server) Publish(p Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = p
}

func (s *Server) current() Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving findings on http://%s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p := s.current()
	if len(p.Lines) == 0 {
		http.Error(w, "nenhuma análise publicada", http.StatusNotFound)
		return
	}

	data := struct {
		Title    string
		HasPlots bool
		Body     template.HTML
	}{
		Title:    p.Title,
		HasPlots: len(p.PlotsHTML) > 0,
		Body:     template.HTML(RenderMarkdown(ReportMarkdown(p.Lines))),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("rendering index: %v", err)
	}
}

func (s *Server) handlePlots(w http.ResponseWriter, r *http.Request) {
	p := s.current()
	if len(p.PlotsHTML) == 0 {
		http.Error(w, "nenhum gráfico gerado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(p.PlotsHTML)
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	p := s.current()
	if len(p.Lines) == 0 {
		http.Error(w, "nenhuma análise publicada", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for i, line := range p.Lines {
		if i > 0 {
			fmt.Fprint(w, "\n")
		}
		fmt.Fprint(w, line)
	}
}

// RenderMarkdown converts markdown to HTML, escaping any raw HTML in the input
func RenderMarkdown(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}
