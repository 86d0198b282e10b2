package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kirillkom/legal-clause-validator/internal/bootstrap"
	"github.com/kirillkom/legal-clause-validator/internal/config"
	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/observability/logging"
)

// builder returns a wired application; remote selects the NATS-backed analyzer.
type builder func(ctx context.Context, cfg config.Config, remote bool) (*bootstrap.App, error)

func defaultBuilder(ctx context.Context, cfg config.Config, remote bool) (*bootstrap.App, error) {
	if remote {
		return bootstrap.NewRemote(cfg)
	}
	return bootstrap.New(ctx, cfg, bootstrap.Options{})
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultBuilder, config.Load)
}

func newRootCommand(build builder, loadConfig func() config.Config) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "clausectl",
		Short:         "Classify contract clauses and suggest rewrites",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			_ = godotenv.Load()
			level := logLevel
			if level == "" {
				level = loadConfig().LogLevel
			}
			slog.SetDefault(logging.NewJSONLoggerTo(cmd.ErrOrStderr(), "clausectl", level))
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to LOG_LEVEL")

	root.AddCommand(
		newAnalyzeCommand(build, loadConfig),
		newClassifyCommand(build, loadConfig),
		newLabelsCommand(build, loadConfig),
	)
	return root
}

func newAnalyzeCommand(build builder, loadConfig func() config.Config) *cobra.Command {
	var (
		reportPath string
		format     string
		natsURL    string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze a .pdf or .docx contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportFormat, err := domain.ParseReportFormat(format)
			if err != nil {
				return err
			}

			cfg := loadConfig()
			if natsURL != "" {
				cfg.NATSURL = natsURL
			}

			content, err := readDocument(args[0], cfg.MaxUploadBytes)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout := cfg.AnalysisTimeout(); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			app, err := build(ctx, cfg, natsURL != "")
			if err != nil {
				return err
			}
			defer app.Close()

			analysis, err := app.Analyzer.Analyze(ctx, domain.NewDocument(filepath.Base(args[0]), content))
			if err != nil {
				return describeFailure(err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(analysis); err != nil {
					return err
				}
			} else {
				printAnalysis(out, analysis)
			}

			if reportPath == "" {
				return nil
			}
			report, err := app.Reports.Compile(ctx, analysis, reportFormat)
			if err != nil {
				return describeFailure(err)
			}
			data, err := io.ReadAll(report.Content)
			if err != nil {
				return fmt.Errorf("read report: %w", err)
			}
			if err := os.WriteFile(reportPath, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", reportPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "write a report to this path")
	cmd.Flags().StringVar(&format, "format", "docx", "report format: docx or xlsx")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "send the document to a worker at this NATS URL instead of analyzing locally")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the analysis as JSON")
	return cmd
}

func newClassifyCommand(build builder, loadConfig func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "classify TEXT",
		Short: "Classify a single clause",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := build(cmd.Context(), loadConfig(), false)
			if err != nil {
				return err
			}
			defer app.Close()

			cls, err := app.Inspector.Classify(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return describeFailure(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f\n", cls.Label, cls.Confidence)
			return nil
		},
	}
}

func newLabelsCommand(build builder, loadConfig func() config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List the classifier label vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := build(cmd.Context(), loadConfig(), false)
			if err != nil {
				return err
			}
			defer app.Close()

			for _, label := range app.Labels {
				fmt.Fprintln(cmd.OutOrStdout(), label)
			}
			return nil
		},
	}
}

func readDocument(path string, limit int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("document is %d bytes, limit is %d", info.Size(), limit)
	}
	if domain.KindFromFilename(path) == domain.KindUnknown {
		return nil, fmt.Errorf("unsupported file type %q: expected .pdf or .docx", filepath.Ext(path))
	}
	return os.ReadFile(path)
}

func describeFailure(err error) error {
	switch {
	case domain.IsKind(err, domain.ErrNotLegalDocument):
		return errors.New("the uploaded document does not appear to be a legal contract")
	case domain.IsKind(err, domain.ErrNoClausesFound):
		return errors.New("no valid clauses found in the document")
	}
	if stage := domain.StageOf(err); stage != "" {
		return fmt.Errorf("%s failed: %w", stage, err)
	}
	return err
}

func printAnalysis(w io.Writer, analysis *domain.Analysis) {
	fmt.Fprintf(w, "Document: %s\n", analysis.Filename)
	fmt.Fprintf(w, "Document type: %s\n", analysis.DocumentType)
	fmt.Fprintf(w, "Clauses: %d (failed suggestions: %d)\n", analysis.TotalClauses, analysis.FailedSuggestions())
	for _, result := range analysis.Results {
		fmt.Fprintf(w, "\n%s\n", result.Heading())
		fmt.Fprintf(w, "  Original:  %s\n", result.Clause.Text)
		fmt.Fprintf(w, "  Suggested: %s\n", result.Suggestion.Display())
	}
}
