package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/legal-clause-validator/internal/core/domain"
	"github.com/kirillkom/legal-clause-validator/internal/core/ports"
)

const (
	serverName    = "legal-clause-validator"
	serverVersion = "1.0.0"
)

// Server exposes the clause pipeline as MCP tools over stdio.
type Server struct {
	analyzer       ports.DocumentAnalyzer
	reports        ports.ReportCompiler
	inspector      ports.ClauseInspector
	labels         []string
	maxUploadBytes int64
}

func New(
	analyzer ports.DocumentAnalyzer,
	reports ports.ReportCompiler,
	inspector ports.ClauseInspector,
	labels []string,
	maxUploadBytes int64,
) *Server {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 20 << 20
	}
	return &Server{
		analyzer:       analyzer,
		reports:        reports,
		inspector:      inspector,
		labels:         labels,
		maxUploadBytes: maxUploadBytes,
	}
}

func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithResourceCapabilities(false, false),
		server.WithLogging(),
	)

	srv.AddResource(
		mcp.NewResource(
			"clauses://labels",
			"Clause Labels",
			mcp.WithResourceDescription("Label vocabulary used by the clause classifier"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleLabels,
	)

	srv.AddTool(
		mcp.NewTool(
			"analyze_document",
			mcp.WithDescription("Classify every clause of a .pdf or .docx contract and suggest a rewrite for each."),
			mcp.WithString("path", mcp.Required(), mcp.Description("Local path of the document")),
			mcp.WithString("report_path", mcp.Description("Optional path to write a report to")),
			mcp.WithString("format", mcp.Description("Report format: docx (default) or xlsx")),
		),
		s.handleAnalyzeDocument,
	)

	srv.AddTool(
		mcp.NewTool(
			"classify_clause",
			mcp.WithDescription("Classify a single clause without a suggestion."),
			mcp.WithString("text", mcp.Required(), mcp.Description("Clause text")),
		),
		s.handleClassifyClause,
	)

	return srv
}

// Run serves until ctx is done. Stdout carries the protocol, so logs must go elsewhere.
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	slog.Info("mcp_server_starting", "transport", "stdio")
	return server.NewStdioServer(s.MCPServer()).Listen(ctx, stdin, stdout)
}

func (s *Server) handleLabels(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	payload, err := json.Marshal(s.labels)
	if err != nil {
		return nil, fmt.Errorf("marshal labels: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(payload),
		},
	}, nil
}

func (s *Server) handleAnalyzeDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	path, _ := args["path"].(string)
	path = strings.TrimSpace(path)
	if path == "" {
		return mcp.NewToolResultError("path argument required"), nil
	}
	reportPath, _ := args["report_path"].(string)
	rawFormat, _ := args["format"].(string)

	format, err := domain.ParseReportFormat(rawFormat)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	content, err := s.readDocument(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	analysis, err := s.analyzer.Analyze(ctx, domain.NewDocument(filepath.Base(path), content))
	if err != nil {
		return toolError(err), nil
	}

	if reportPath = strings.TrimSpace(reportPath); reportPath != "" {
		if err := s.writeReport(ctx, analysis, format, reportPath); err != nil {
			return toolError(err), nil
		}
	}

	payload, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleClassifyClause(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, ok := request.GetArguments()["text"].(string)
	if !ok {
		return mcp.NewToolResultError("text argument required"), nil
	}

	cls, err := s.inspector.Classify(ctx, text)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s (confidence %.2f)", cls.Label, cls.Confidence)), nil
}

func (s *Server) readDocument(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open document: %s is a directory", path)
	}
	if info.Size() > s.maxUploadBytes {
		return nil, fmt.Errorf("document is %d bytes, limit is %d", info.Size(), s.maxUploadBytes)
	}
	return os.ReadFile(path)
}

func (s *Server) writeReport(ctx context.Context, analysis *domain.Analysis, format domain.ReportFormat, path string) error {
	report, err := s.reports.Compile(ctx, analysis, format)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(report.Content)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func toolError(err error) *mcp.CallToolResult {
	if stage := domain.StageOf(err); stage != "" {
		return mcp.NewToolResultError(fmt.Sprintf("%s stage failed: %v", stage, err))
	}
	return mcp.NewToolResultError(err.Error())
}
