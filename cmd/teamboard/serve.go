package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vilaca/teamboard/internal/api"
	"github.com/vilaca/teamboard/internal/api/jira"
	"github.com/vilaca/teamboard/internal/config"
	"github.com/vilaca/teamboard/internal/dashboard"
	"github.com/vilaca/teamboard/internal/service"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	handler, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting teamboard",
			zap.String("addr", "http://localhost"+addr),
			zap.String("tracker", cfg.IssueTracker.URL),
			zap.String("project", cfg.IssueTracker.Project),
			zap.Stringer("project_field", cfg.IssueTracker.ProjectField),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildServer wires up all dependencies and returns the configured HTTP handler.
// This is the composition root where all dependencies are created and injected.
func buildServer(cfg *config.Config, logger *zap.Logger) (http.Handler, error) {
	renderer, err := dashboard.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{
		Timeout: cfg.IssueTracker.Timeout,
	}

	jiraClient := jira.NewClient(api.ClientConfig{
		BaseURL:  cfg.IssueTracker.URL,
		Auth:     api.NewAuth(cfg.IssueTracker.AuthScheme, cfg.Tokens.JiraToken),
		PageSize: cfg.IssueTracker.PageSize,
	}, httpClient)

	colors := service.NewColorResolver(cfg.Projects, cfg.DefaultProjectColor)
	transformer := service.NewTransformer(cfg.IssueTracker.ProjectField, cfg.IssueTracker.FlaggedField, colors)

	boardService := service.NewBoardService(service.BoardServiceConfig{
		Client:      jiraClient,
		Transformer: transformer,
		Project:     cfg.IssueTracker.Project,
		Fields:      cfg.SearchFields(),
		Logger:      logger.Named("board"),
	})

	handler := dashboard.NewHandler(dashboard.HandlerConfig{
		Renderer:     renderer,
		Logger:       logger.Named("http"),
		BoardService: boardService,
	})

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	return dashboard.WithRequestLogging(logger.Named("access"), mux), nil
}
