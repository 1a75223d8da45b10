package dashboard

import (
	"bytes"
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/vilaca/teamboard/internal/domain"
)

// DefaultRefreshSeconds is how often the board page reloads its columns.
const DefaultRefreshSeconds = 60

// Column binds a route to a workflow status and the way its issues are displayed.
type Column struct {
	Path       string
	Title      string
	Status     string
	Layout     Layout
	ShowAvatar bool
	ShowAge    bool
}

// DefaultColumns are the board columns, left to right.
var DefaultColumns = []Column{
	{Path: "/todo", Title: "To Do", Status: "to do", Layout: LayoutCondensed},
	{Path: "/in_progress", Title: "In Progress", Status: "in progress", Layout: LayoutFull, ShowAvatar: true, ShowAge: true},
	{Path: "/ready_for_review", Title: "Ready for Review", Status: "ready for review", Layout: LayoutFull, ShowAvatar: true},
	{Path: "/in_review", Title: "In Review", Status: "in review", Layout: LayoutFull, ShowAvatar: true},
	{Path: "/external_test", Title: "External Test", Status: "external test", Layout: LayoutCondensed, ShowAvatar: true},
}

// BoardService interface for issue operations (Dependency Inversion Principle).
type BoardService interface {
	FetchIssues(ctx context.Context, status string) ([]domain.Card, error)
}

// Handler handles HTTP requests for the board.
type Handler struct {
	renderer       Renderer
	logger         *zap.Logger
	boardService   BoardService
	columns        []Column
	title          string
	refreshSeconds int
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Renderer       Renderer
	Logger         *zap.Logger
	BoardService   BoardService
	Columns        []Column
	Title          string
	RefreshSeconds int
}

// NewHandler creates a new Handler with injected dependencies.
func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		renderer:       cfg.Renderer,
		logger:         cfg.Logger,
		boardService:   cfg.BoardService,
		columns:        cfg.Columns,
		title:          cfg.Title,
		refreshSeconds: cfg.RefreshSeconds,
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	if h.columns == nil {
		h.columns = DefaultColumns
	}
	if h.title == "" {
		h.title = "Team Board"
	}
	if h.refreshSeconds <= 0 {
		h.refreshSeconds = DefaultRefreshSeconds
	}
	return h
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	for _, column := range h.columns {
		mux.HandleFunc("GET "+column.Path, h.handleColumn(column))
	}
}

// handleHealth serves the health check endpoint.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := h.renderer.RenderHealth(w); err != nil {
		h.logger.Error("failed to render health", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// handleIndex serves the board page, which loads every column fragment.
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	view := IndexView{Title: h.title, Columns: h.columns, RefreshSeconds: h.refreshSeconds}
	if err := h.renderer.RenderIndex(&buf, view); err != nil {
		h.logger.Error("failed to render index", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleColumn returns the handler rendering the issues of one workflow status.
func (h *Handler) handleColumn(column Column) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		issues, err := h.boardService.FetchIssues(r.Context(), column.Status)
		if err != nil {
			h.logger.Error("failed to fetch issues", zap.String("status", column.Status), zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		view := IssuesView{Issues: issues, ShowAvatar: column.ShowAvatar, ShowAge: column.ShowAge}
		if err := h.renderer.RenderIssues(&buf, column.Layout, view); err != nil {
			h.logger.Error("failed to render issues", zap.String("status", column.Status), zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}
