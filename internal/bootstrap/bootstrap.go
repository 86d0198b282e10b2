package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/legal-clause-validator/internal/config"
	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/core/ports"
	"github.com/kirillkom/legal-clause-validator/internal/core/usecase"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/classifier/cache"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/classifier/tei"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/extractor"
	docxextractor "github.com/kirillkom/legal-clause-validator/internal/infrastructure/extractor/docx"
	pdfextractor "github.com/kirillkom/legal-clause-validator/internal/infrastructure/extractor/pdf"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/lexicon"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/llm/gemini"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/queue/nats"
	docxreport "github.com/kirillkom/legal-clause-validator/internal/infrastructure/report/docx"
	xlsxreport "github.com/kirillkom/legal-clause-validator/internal/infrastructure/report/xlsx"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/resilience"
	"github.com/kirillkom/legal-clause-validator/internal/infrastructure/segmentation"
)

type Options struct {
	// BreakerObserver receives circuit breaker transitions of every remote client.
	BreakerObserver resilience.StateObserver
}

type App struct {
	Config config.Config

	Analyzer  ports.DocumentAnalyzer
	Reports   ports.ReportCompiler
	Inspector ports.ClauseInspector
	Labels    []string
	Bus       *nats.Bus

	closeFns []func()
}

// New builds every model client once. All failures are model initialization
// errors and must stop the process.
func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	app := &App{Config: cfg}
	if err := app.build(ctx, opts); err != nil {
		app.Close()
		if !domain.IsKind(err, domain.ErrModelInitialization) {
			err = domain.WrapError(domain.ErrModelInitialization, "bootstrap", err)
		}
		return nil, err
	}
	return app, nil
}

// NewRemote wires an analyzer that delegates to workers over NATS. Reports are still compiled locally.
func NewRemote(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.NATSURL) == "" {
		return nil, domain.WrapError(domain.ErrModelInitialization, "bootstrap remote", errors.New("NATS_URL not set"))
	}
	bus, err := newBus(cfg, Options{})
	if err != nil {
		return nil, err
	}
	return &App{
		Config:   cfg,
		Analyzer: nats.NewRemoteAnalyzer(bus),
		Reports:  newReports(cfg),
		Bus:      bus,
		closeFns: []func(){bus.Close},
	}, nil
}

func (a *App) build(ctx context.Context, opts Options) error {
	cfg := a.Config

	lex, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		return err
	}
	filter := usecase.NewLegalFilter(lex.LegalIndicators, cfg.LegalKeywordThreshold)

	segmenter, err := segmentation.New(cfg.SegmentationModel, filter.Indicators()...)
	if err != nil {
		return err
	}

	classifier, err := a.newClassifier(ctx, lex, opts)
	if err != nil {
		return err
	}
	a.Labels = classifier.Labels()

	generator, err := a.newGenerator(ctx, opts)
	if err != nil {
		return err
	}

	var publisher ports.AnalysisEventPublisher
	if strings.TrimSpace(cfg.NATSURL) != "" {
		bus, err := newBus(cfg, opts)
		if err != nil {
			return err
		}
		a.Bus = bus
		a.closeFns = append(a.closeFns, bus.Close)
		publisher = bus
	}

	dispatcher := extractor.NewDispatcher(pdfextractor.NewExtractor(), docxextractor.NewExtractor())
	suggester := usecase.NewSuggestionGenerator(generator, cfg.SuggestionTimeout())

	a.Analyzer = usecase.NewAnalyzeDocumentUseCase(
		dispatcher,
		filter,
		segmenter,
		classifier,
		suggester,
		publisher,
		usecase.AnalyzeOptions{
			MinClauseLength: cfg.MinClauseLength,
			Workers:         cfg.AnalysisWorkers,
		},
	)
	a.Reports = newReports(cfg)
	a.Inspector = usecase.NewClassifyClauseUseCase(classifier)

	slog.Info("bootstrap_completed",
		"segmentation_model", cfg.SegmentationModel,
		"classification_backend", cfg.ClassificationBackend,
		"generation_provider", cfg.GenerationProvider,
		"labels", len(a.Labels),
		"legal_indicators", len(filter.Indicators()),
		"nats", a.Bus != nil,
	)
	return nil
}

func (a *App) newClassifier(ctx context.Context, lex lexicon.Lexicon, opts Options) (ports.ClauseClassifier, error) {
	cfg := a.Config
	executor := newExecutor(resilience.ClassifierConfig(), opts)

	var classifier ports.ClauseClassifier
	switch strings.ToLower(strings.TrimSpace(cfg.ClassificationBackend)) {
	case "", "tei":
		teiClassifier, err := tei.New(ctx, cfg.ClassifierURL, cfg.ClassificationModel, tei.Options{
			Timeout:  cfg.ClassifierTimeout(),
			Executor: executor,
		})
		if err != nil {
			return nil, err
		}
		classifier = teiClassifier
	case "ollama":
		client := ollama.New(cfg.OllamaURL, cfg.ClassificationModel, executor)
		ollamaClassifier, err := ollama.NewClassifier(client, lex.LabelsOrDefault())
		if err != nil {
			return nil, err
		}
		classifier = ollamaClassifier
	default:
		return nil, domain.WrapError(
			domain.ErrModelInitialization,
			"create classifier",
			fmt.Errorf("unknown classification backend %q", cfg.ClassificationBackend),
		)
	}

	cached, err := cache.Wrap(classifier, cfg.ClassifierCacheSize)
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelInitialization, "create classifier cache", err)
	}
	return cached, nil
}

func (a *App) newGenerator(ctx context.Context, opts Options) (ports.TextGenerator, error) {
	cfg := a.Config
	executor := newExecutor(resilience.SuggestionConfig(cfg.SuggestionRetryMaxAttempts, cfg.SuggestionBreakerEnabled), opts)

	switch strings.ToLower(strings.TrimSpace(cfg.GenerationProvider)) {
	case "", "gemini":
		generator, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GenerationModel, executor)
		if err != nil {
			return nil, err
		}
		a.closeFns = append(a.closeFns, func() { _ = generator.Close() })
		return generator, nil
	case "ollama":
		return ollama.NewGenerator(ollama.New(cfg.OllamaURL, cfg.GenerationModel, executor)), nil
	default:
		return nil, domain.WrapError(
			domain.ErrModelInitialization,
			"create generator",
			fmt.Errorf("unknown generation provider %q", cfg.GenerationProvider),
		)
	}
}

func newReports(cfg config.Config) *usecase.ReportUseCase {
	return usecase.NewReportUseCase(cfg.ReportTitle, docxreport.NewWriter(), xlsxreport.NewWriter())
}

func newBus(cfg config.Config, opts Options) (*nats.Bus, error) {
	bus, err := nats.New(cfg.NATSURL, nats.Options{
		EventsSubject:      cfg.NATSEventsSubject,
		RequestSubject:     cfg.NATSRequestSubject,
		ResilienceExecutor: newExecutor(resilience.ClassifierConfig(), opts),
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrModelInitialization, "connect message bus", err)
	}
	return bus, nil
}

func newExecutor(cfg resilience.Config, opts Options) *resilience.Executor {
	executor := resilience.NewExecutor(cfg)
	if opts.BreakerObserver != nil {
		executor.WithObserver(opts.BreakerObserver)
	}
	return executor
}

func (a *App) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
	a.closeFns = nil
}
