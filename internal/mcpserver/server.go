// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the transcript archive to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hallgrim/skald/internal/apperr"
	"github.com/hallgrim/skald/internal/summaryservice"
)

// Server wraps the MCP server with Skald tools.
type Server struct {
	mcp *server.MCPServer
	svc *summaryservice.Service
}

// New creates a new MCP server with all Skald tools registered.
func New(svc *summaryservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Skald",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_transcripts",
		mcp.WithDescription("Full-text search through archived chat transcripts."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchTranscripts)

	s.mcp.AddTool(mcp.NewTool("read_transcript",
		mcp.WithDescription("Read the full Markdown transcript of one channel for one day. "+
			"The document follows the format described by the skald://transcript-format resource."),
		mcp.WithString("day", mcp.Required(), mcp.Description("Calendar day, YYYY-MM-DD")),
		mcp.WithString("channel", mcp.Required(), mcp.Description("Channel name (without .md)")),
	), s.readTranscript)

	s.mcp.AddTool(mcp.NewTool("read_summary",
		mcp.WithDescription("Read the rendered daily summary of one channel for one day."),
		mcp.WithString("day", mcp.Required(), mcp.Description("Calendar day, YYYY-MM-DD")),
		mcp.WithString("channel", mcp.Required(), mcp.Description("Channel name (without .md)")),
	), s.readSummary)

	s.mcp.AddTool(mcp.NewTool("list_days",
		mcp.WithDescription("List archived days with per-day channel and message counts, newest first."),
	), s.listDays)

	s.mcp.AddTool(mcp.NewTool("get_transcript_contract",
		mcp.WithDescription("Returns the canonical transcript document format. "+
			"Call this before parsing transcript content."),
	), s.getTranscriptContract)

	// Resource: transcript format contract.
	s.mcp.AddResource(
		mcp.NewResource("skald://transcript-format", "Transcript Format Contract",
			mcp.WithResourceDescription("Canonical Markdown transcript format produced by the collector."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTranscriptFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchTranscripts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readTranscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	channel, err := req.RequireString("channel")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetTranscript(ctx, day, channel)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s/%s", day, channel)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(detail.Content), nil
}

func (s *Server) readSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := req.RequireString("day")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	channel, err := req.RequireString("channel")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetSummary(ctx, day, channel)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no summary for %s/%s", day, channel)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(detail.Content), nil
}

func (s *Server) listDays(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days, err := s.svc.ListDays(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(days) == 0 {
		return mcp.NewToolResultText("archive is empty"), nil
	}
	out, _ := json.MarshalIndent(days, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getTranscriptContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TranscriptFormatContract), nil
}

func (s *Server) readTranscriptFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "skald://transcript-format",
			MIMEType: "text/markdown",
			Text:     TranscriptFormatContract,
		},
	}, nil
}
