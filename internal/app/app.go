package app

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"curator/internal/backends"
	"curator/internal/config"
	"curator/internal/history"
	"curator/internal/llm"
	"curator/internal/metadata"
	"curator/internal/organizer"
)

// App holds the wired pipeline: the transport list in fallback order, the
// engine over it, metadata extraction, and the run history store.
type App struct {
	Config     *config.Config
	Engine     *llm.Engine
	Extractors *metadata.Registry
	History    *history.Store

	closers []func() error
}

// NewApp builds every component from configuration. Transports are created in
// the configured order; a hosted backend without credentials fails loudly here
// rather than mid-run.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	transports, err := app.initTransports(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Engine = llm.NewEngine(transports, cfg.Context)
	app.Extractors = metadata.NewRegistry()

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init history store: %w", err)
	}
	app.History = store
	app.closers = append(app.closers, store.Close)

	log.Debugf("initialized with backends %v, run %s", cfg.Backends, store.RunID())
	return app, nil
}

func (a *App) initTransports(ctx context.Context) ([]llm.Transport, error) {
	var transports []llm.Transport
	for _, name := range a.Config.Backends {
		switch name {
		case "ollama":
			model := backends.ChooseModel(a.Config.Ollama.Model)
			log.Debugf("ollama model: %s", model)
			transports = append(transports, backends.NewOllamaTransport(
				model, a.Config.Ollama.BaseURL, a.Config.Context))
		case "openai":
			t, err := backends.NewOpenAITransport(a.Config.OpenAI.APIKey, a.Config.OpenAI.Model)
			if err != nil {
				return nil, fmt.Errorf("init openai backend: %w", err)
			}
			transports = append(transports, t)
		case "gemini":
			t, err := backends.NewGeminiTransport(ctx, a.Config.Gemini.APIKey, a.Config.Gemini.Model)
			if err != nil {
				return nil, fmt.Errorf("init gemini backend: %w", err)
			}
			a.closers = append(a.closers, t.Close)
			transports = append(transports, t)
		default:
			return nil, fmt.Errorf("unknown backend %q", name)
		}
	}
	if len(transports) == 0 {
		return nil, fmt.Errorf("no backends configured")
	}
	return transports, nil
}

// NewOrganizer wires an organizer over the app's engine and extractors,
// writing progress to out.
func (a *App) NewOrganizer(out io.Writer) *organizer.Organizer {
	var recorder organizer.Recorder
	if a.History != nil {
		recorder = a.History
	}
	return organizer.New(a.Engine, a.Extractors, recorder, a.Config.Scan.TargetRoot, out)
}

// Close releases every resource the app opened, in reverse order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warnf("close: %v", err)
		}
	}
	a.closers = nil
}
