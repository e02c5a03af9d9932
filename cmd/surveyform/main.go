package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-surveyform/internal/config"
	"github.com/goliatone/go-surveyform/pkg/behaviors"
	"github.com/goliatone/go-surveyform/pkg/model"
	"github.com/goliatone/go-surveyform/pkg/orchestrator"
	"github.com/goliatone/go-surveyform/pkg/render"
	"github.com/goliatone/go-surveyform/pkg/renderers/tui"
	"github.com/goliatone/go-surveyform/pkg/renderers/vanilla"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch, err := newOrchestrator(cfg)
	if err != nil {
		log.Fatalf("Failed to configure: %v", err)
	}

	switch cfg.Mode {
	case config.ModeServe:
		err = serve(ctx, cfg, orch)
	default:
		err = generate(ctx, cfg, orch)
	}
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			os.Exit(130)
		}
		log.Fatalf("surveyform %s: %v", cfg.Mode, err)
	}
}

func newOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, error) {
	registry := render.NewRegistry()

	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	registry.MustRegister(html)

	term, err := tui.New(tui.WithOutputFormat(tui.OutputFormat(cfg.OutputFormat)))
	if err != nil {
		return nil, err
	}
	registry.MustRegister(term)

	options := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithTheme(themeConfig(cfg.Theme)),
		orchestrator.WithStrictLint(cfg.StrictLint),
		orchestrator.WithLintHook(func(survey model.Survey, findings []model.Finding) {
			for _, finding := range findings {
				log.Printf("surveyform: survey %d: %s", survey.ID, finding)
			}
		}),
	}
	if cfg.Preset != "" {
		preset, err := orchestrator.NewJSONPresetTransformerFromFS(os.DirFS("."), cfg.Preset)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithTransformers(preset))
	}
	return orchestrator.New(options...), nil
}

func generate(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator) error {
	rendererName := "vanilla"
	if cfg.Mode == config.ModeTake {
		rendererName = "tui"
	}

	out, err := orch.Generate(ctx, orchestrator.Request{
		Path:     cfg.Surveys[0],
		Renderer: rendererName,
	})
	if err != nil {
		return err
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("Output written to %s\n", cfg.Output)
		return nil
	}
	fmt.Println(string(out))
	return nil
}

// loadSurveys loads every configured survey and logs its lint findings. With
// strict lint enabled the first survey with findings aborts startup.
func loadSurveys(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator) ([]model.Survey, error) {
	surveys := make([]model.Survey, 0, len(cfg.Surveys))
	for _, path := range cfg.Surveys {
		survey, err := orch.Load(ctx, orchestrator.Request{Path: path})
		if err != nil {
			return nil, err
		}
		findings := survey.Lint()
		for _, finding := range findings {
			log.Printf("surveyform: survey %d: %s", survey.ID, finding)
		}
		if cfg.StrictLint && len(findings) > 0 {
			return nil, fmt.Errorf("%w: survey %d: %s", orchestrator.ErrLint, survey.ID, findings[0])
		}
		surveys = append(surveys, survey)
	}
	return surveys, nil
}

func serve(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator) error {
	surveys, err := loadSurveys(ctx, cfg, orch)
	if err != nil {
		return err
	}

	handler, err := newServer(serverConfig{
		BasePath:      cfg.Server.BasePath,
		CacheSize:     cfg.Server.CacheSize,
		RequireHidden: cfg.Server.RequireHidden,
		Theme:         themeConfig(cfg.Theme),
	}, surveys)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("surveyform: listening on %s", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func themeConfig(cfg config.ThemeConfig) *theme.RendererConfig {
	tokens := map[string]string{}
	if cfg.Border != "" {
		tokens[behaviors.TokenBorder] = cfg.Border
	}
	if cfg.BorderError != "" {
		tokens[behaviors.TokenBorderError] = cfg.BorderError
	}
	if cfg.Name == "" && cfg.Variant == "" && len(tokens) == 0 {
		return nil
	}
	return &theme.RendererConfig{
		Theme:   cfg.Name,
		Variant: cfg.Variant,
		Tokens:  tokens,
	}
}
