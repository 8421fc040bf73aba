// Package mcp exposes the dataset operations as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/base64"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"fauxlizer/internal/exporter"
	"fauxlizer/internal/infrastructure"
	"fauxlizer/pkg/contracts"
	"fauxlizer/pkg/contracts/domain"
)

// DatasetService is the subset of the dataset service the tools call.
type DatasetService interface {
	Validate(ctx context.Context, path string) domain.ValidationOutcome
	Summarize(ctx context.Context, path string) (*domain.Summary, error)
	GetRow(ctx context.Context, path string, index int, format string) (*exporter.Export, error)
}

// Server wraps the MCP SDK server with the dataset tools registered.
type Server struct {
	MCPServer *sdkmcp.Server

	datasets DatasetService
	log      *slog.Logger
}

// NewServer creates an MCP server bound to datasets.
func NewServer(datasets DatasetService, logger *slog.Logger) *Server {
	s := &Server{
		MCPServer: sdkmcp.NewServer(
			&sdkmcp.Implementation{Name: "fauxlizer", Version: contracts.Version},
			nil,
		),
		datasets: datasets,
		log:      infrastructure.WithComponent(logger, "mcp"),
	}
	s.registerTools()
	return s
}

// Run serves over stdin/stdout until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context) error {
	s.log.InfoContext(ctx, "starting MCP server over stdio")
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "validate_dataset",
		Description: "Validate a fauxness CSV file. Returns the verdict and, on failure, the reason, field, value and 1-based row. A passing verdict unlocks summarize_dataset and get_dataset_row for the same path.",
	}, s.handleValidate)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "summarize_dataset",
		Description: "Summarize a validated dataset: row count, fauxness min/max/mean/std and category counts. Undefined statistics are null.",
	}, s.handleSummarize)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_dataset_row",
		Description: "Return one data row (0-based index) of a validated dataset, serialized as csv, json, native or xlsx.",
	}, s.handleGetRow)
}

// --- Tool input/output types ---

type pathInput struct {
	Path string `json:"path" jsonschema:"path of the dataset file"`
}

type validateOutput struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Reason  string `json:"reason,omitempty"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
	Row     int    `json:"row,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message"`
}

type fauxnessOutput struct {
	Min  *float64 `json:"minFauxness"`
	Max  *float64 `json:"maxFauxness"`
	Mean *float64 `json:"meanFauxness"`
	Std  *float64 `json:"stdFauxness"`
}

type categoryOutput struct {
	TotalReal      int `json:"totalReal"`
	TotalFake      int `json:"totalFake"`
	TotalAmbiguous int `json:"totalAmbiguous"`
}

type summaryOutput struct {
	Filename      string         `json:"filename"`
	TotalRows     int            `json:"totalRows"`
	Fauxness      fauxnessOutput `json:"fauxness"`
	CategoryGuess categoryOutput `json:"category_guess"`
}

type getRowInput struct {
	Path   string `json:"path" jsonschema:"path of a validated dataset file"`
	Index  int    `json:"index" jsonschema:"0-based data row index"`
	Format string `json:"format,omitempty" jsonschema:"csv, json, native or xlsx (default json)"`
}

type getRowOutput struct {
	Path    string            `json:"path"`
	Index   int               `json:"index"`
	Format  string            `json:"format"`
	Columns []string          `json:"columns"`
	Values  map[string]string `json:"values"`
	Content string            `json:"content,omitempty"`
	Base64  bool              `json:"base64,omitempty"`
}

// --- Tool handlers ---

func (s *Server) handleValidate(ctx context.Context, _ *sdkmcp.CallToolRequest, input pathInput) (*sdkmcp.CallToolResult, validateOutput, error) {
	outcome := s.datasets.Validate(ctx, input.Path)
	return nil, validateOutput{
		Path:    outcome.Path,
		Valid:   outcome.Valid,
		Reason:  string(outcome.Reason),
		Field:   outcome.Field,
		Value:   outcome.Value,
		Row:     outcome.Row,
		Detail:  outcome.Detail,
		Message: outcome.String(),
	}, nil
}

func (s *Server) handleSummarize(ctx context.Context, _ *sdkmcp.CallToolRequest, input pathInput) (*sdkmcp.CallToolResult, summaryOutput, error) {
	summary, err := s.datasets.Summarize(ctx, input.Path)
	if err != nil {
		return nil, summaryOutput{}, err
	}
	return nil, summaryOutput{
		Filename:  summary.Filename,
		TotalRows: summary.TotalRows,
		Fauxness: fauxnessOutput{
			Min:  statPtr(summary.Fauxness.Min),
			Max:  statPtr(summary.Fauxness.Max),
			Mean: statPtr(summary.Fauxness.Mean),
			Std:  statPtr(summary.Fauxness.Std),
		},
		CategoryGuess: categoryOutput{
			TotalReal:      summary.CategoryGuess.Real,
			TotalFake:      summary.CategoryGuess.Fake,
			TotalAmbiguous: summary.CategoryGuess.Ambiguous,
		},
	}, nil
}

func (s *Server) handleGetRow(ctx context.Context, _ *sdkmcp.CallToolRequest, input getRowInput) (*sdkmcp.CallToolResult, getRowOutput, error) {
	format := input.Format
	if format == "" {
		format = string(exporter.FormatJSON)
	}

	export, err := s.datasets.GetRow(ctx, input.Path, input.Index, format)
	if err != nil {
		return nil, getRowOutput{}, err
	}

	values := make(map[string]string, export.Row.Len())
	for _, c := range export.Row.Cells {
		values[c.Name] = c.Value
	}
	out := getRowOutput{
		Path:    input.Path,
		Index:   input.Index,
		Format:  string(export.Format),
		Columns: export.Row.Keys(),
		Values:  values,
	}
	switch export.Format {
	case exporter.FormatNative:
	case exporter.FormatXLSX:
		out.Content = base64.StdEncoding.EncodeToString(export.Data)
		out.Base64 = true
	default:
		out.Content = string(export.Data)
	}
	return nil, out, nil
}

// statPtr maps undefined statistics to null.
func statPtr(s domain.Stat) *float64 {
	if s.IsNaN() {
		return nil
	}
	f := float64(s)
	return &f
}
