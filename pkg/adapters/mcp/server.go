package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tatami"
	"github.com/aretw0/tatami/internal/logging"
	"github.com/aretw0/tatami/internal/presentation/graph"
	"github.com/aretw0/tatami/internal/presentation/tui"
	"github.com/aretw0/tatami/pkg/domain"
	"github.com/aretw0/tatami/pkg/ports"
	"github.com/aretw0/tatami/pkg/tags"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const sequencesURI = "tatami://sequences"

// Service is the part of the library exposed to MCP clients.
type Service interface {
	ports.SequenceService
	ports.QuizService
}

var _ Service = (*tatami.Library)(nil)

// SequenceSummary is the list entry returned to clients.
type SequenceSummary struct {
	ID        string   `json:"id" jsonschema_description:"Sequence id"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
	Nodes     int      `json:"nodes" jsonschema_description:"Number of positions"`
	Edges     int      `json:"edges" jsonschema_description:"Number of transitions"`
	Archived  bool     `json:"archived"`
	UpdatedAt int64    `json:"updatedAt" jsonschema_description:"Last update, epoch milliseconds"`
}

// SequenceList wraps list results; structured tool output must be an object.
type SequenceList struct {
	Sequences []SequenceSummary `json:"sequences"`
}

// QuizResponse is the structured result of quiz tools.
type QuizResponse struct {
	View   *domain.QuizView `json:"view" jsonschema_description:"Current quiz state, node, suggested reaction and response options"`
	Prompt string           `json:"prompt" jsonschema_description:"Markdown rendering of the view"`
}

// TagList is the result of normalize_tags.
type TagList struct {
	Tags []string `json:"tags"`
}

type listArgs struct {
	Tag             string `json:"tag,omitempty"`
	IncludeArchived bool   `json:"include_archived,omitempty"`
}

type sequenceArgs struct {
	SequenceID string `json:"sequence_id"`
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

type chooseArgs struct {
	SessionID string `json:"session_id"`
	Option    int    `json:"option"`
}

type tagArgs struct {
	Tags string `json:"tags"`
}

// Server exposes the library as an MCP server.
type Server struct {
	svc       Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the MCP server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates an MCP server for svc.
func NewServer(svc Service, opts ...Option) *Server {
	s := &Server{
		svc:    svc,
		logger: logging.NewNop(),
		mcpServer: server.NewMCPServer("tatami-mcp", strings.TrimSpace(tatami.Version),
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_sequences",
		mcp.WithDescription("List stored sequences, most recently updated first."),
		mcp.WithString("tag", mcp.Description("Only sequences carrying this tag")),
		mcp.WithBoolean("include_archived", mcp.Description("Also list archived sequences")),
		mcp.WithOutputSchema[SequenceList](),
	), mcp.NewStructuredToolHandler(s.handleListSequences))

	s.mcpServer.AddTool(mcp.NewTool("get_sequence",
		mcp.WithDescription("Show a sequence as markdown: key ideas, positions and transitions."),
		mcp.WithString("sequence_id", mcp.Required(), mcp.Description("Sequence id")),
	), s.handleGetSequence)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Mermaid flowchart of a sequence."),
		mcp.WithString("sequence_id", mcp.Required(), mcp.Description("Sequence id")),
	), s.handleGetGraph)

	s.mcpServer.AddTool(mcp.NewTool("start_quiz",
		mcp.WithDescription("Start a quiz on the hub of a sequence. Returns the session id inside the view state."),
		mcp.WithString("sequence_id", mcp.Required(), mcp.Description("Sequence id")),
		mcp.WithOutputSchema[QuizResponse](),
	), mcp.NewStructuredToolHandler(s.handleStartQuiz))

	s.mcpServer.AddTool(mcp.NewTool("choose_response",
		mcp.WithDescription("Answer the presented reaction by picking one of the response options."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Quiz session id")),
		mcp.WithNumber("option", mcp.Required(), mcp.Description("Index of the chosen option")),
		mcp.WithOutputSchema[QuizResponse](),
	), mcp.NewStructuredToolHandler(s.handleChoose))

	s.mcpServer.AddTool(mcp.NewTool("get_quiz",
		mcp.WithDescription("Current view of a quiz session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Quiz session id")),
		mcp.WithOutputSchema[QuizResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetQuiz))

	s.mcpServer.AddTool(mcp.NewTool("end_quiz",
		mcp.WithDescription("Switch a quiz session to view mode."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Quiz session id")),
		mcp.WithOutputSchema[QuizResponse](),
	), mcp.NewStructuredToolHandler(s.handleEndQuiz))

	s.mcpServer.AddTool(mcp.NewTool("normalize_tags",
		mcp.WithDescription("Normalize a comma-separated tag list: trimmed, lowercased, deduplicated."),
		mcp.WithString("tags", mcp.Required(), mcp.Description("Comma-separated tags")),
		mcp.WithOutputSchema[TagList](),
	), mcp.NewStructuredToolHandler(s.handleNormalizeTags))
}

func (s *Server) handleListSequences(ctx context.Context, _ mcp.CallToolRequest, args listArgs) (SequenceList, error) {
	seqs, err := s.svc.ListSequences(ctx, ports.ListOptions{Tag: args.Tag, IncludeArchived: args.IncludeArchived})
	if err != nil {
		return SequenceList{}, fmt.Errorf("list failed: %w", err)
	}
	return SequenceList{Sequences: summarize(seqs)}, nil
}

func (s *Server) handleGetSequence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("sequence_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	seq, err := s.svc.GetSequence(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get sequence failed: %v", err)), nil
	}
	return mcp.NewToolResultText(tui.SequenceMarkdown(seq)), nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("sequence_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	seq, err := s.svc.GetSequence(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("get sequence failed: %v", err)), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(seq, nil)), nil
}

func (s *Server) handleStartQuiz(ctx context.Context, _ mcp.CallToolRequest, args sequenceArgs) (QuizResponse, error) {
	view, err := s.svc.StartQuiz(ctx, args.SequenceID)
	if err != nil {
		return QuizResponse{}, fmt.Errorf("start quiz failed: %w", err)
	}
	return s.respond(ctx, view)
}

func (s *Server) handleChoose(ctx context.Context, _ mcp.CallToolRequest, args chooseArgs) (QuizResponse, error) {
	view, err := s.svc.Choose(ctx, args.SessionID, args.Option)
	if err != nil {
		return QuizResponse{}, fmt.Errorf("choose failed: %w", err)
	}
	return s.respond(ctx, view)
}

func (s *Server) handleGetQuiz(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (QuizResponse, error) {
	view, err := s.svc.Quiz(ctx, args.SessionID)
	if err != nil {
		return QuizResponse{}, fmt.Errorf("get quiz failed: %w", err)
	}
	return s.respond(ctx, view)
}

func (s *Server) handleEndQuiz(ctx context.Context, _ mcp.CallToolRequest, args sessionArgs) (QuizResponse, error) {
	view, err := s.svc.EndQuiz(ctx, args.SessionID)
	if err != nil {
		return QuizResponse{}, fmt.Errorf("end quiz failed: %w", err)
	}
	return s.respond(ctx, view)
}

func (s *Server) handleNormalizeTags(_ context.Context, _ mcp.CallToolRequest, args tagArgs) (TagList, error) {
	return TagList{Tags: tags.NormalizeTags(args.Tags)}, nil
}

// respond renders the view as markdown alongside the structured payload.
func (s *Server) respond(ctx context.Context, view *domain.QuizView) (QuizResponse, error) {
	seq, err := s.svc.GetSequence(ctx, view.State.SequenceID)
	if err != nil {
		return QuizResponse{}, fmt.Errorf("load sequence failed: %w", err)
	}
	return QuizResponse{View: view, Prompt: tui.QuizMarkdown(seq, view)}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(sequencesURI, "Sequence library",
		mcp.WithResourceDescription("Summaries of every active sequence"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		seqs, err := s.svc.ListSequences(ctx, ports.ListOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to list sequences: %w", err)
		}
		return jsonContents(sequencesURI, summarize(seqs))
	})

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(sequencesURI+"/{id}", "Sequence document",
		mcp.WithTemplateDescription("A full sequence document"),
		mcp.WithTemplateMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		id, ok := strings.CutPrefix(request.Params.URI, sequencesURI+"/")
		if !ok || id == "" {
			return nil, fmt.Errorf("unexpected resource uri %q", request.Params.URI)
		}
		seq, err := s.svc.GetSequence(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load sequence: %w", err)
		}
		return jsonContents(request.Params.URI, seq)
	})
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func summarize(seqs []*domain.Sequence) []SequenceSummary {
	out := make([]SequenceSummary, 0, len(seqs))
	for _, seq := range seqs {
		out = append(out, SequenceSummary{
			ID:        seq.ID,
			Name:      seq.Name,
			Tags:      seq.Tags,
			Nodes:     len(seq.Nodes),
			Edges:     len(seq.Edges),
			Archived:  seq.IsArchived,
			UpdatedAt: seq.UpdatedAt,
		})
	}
	return out
}
