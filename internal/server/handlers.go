package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/diagramkit/mermaid-mcp/internal/mermaid"
)

// generateFileArgs are the arguments of generate_mermaid_diagram_file. The
// backgroundColor key is camelCase on the wire.
type generateFileArgs struct {
	Code            string `json:"code"`
	Folder          string `json:"folder"`
	Name            string `json:"name"`
	Theme           string `json:"theme"`
	BackgroundColor string `json:"backgroundColor"`
}

// generateStreamArgs are the arguments of generate_mermaid_diagram_stream.
type generateStreamArgs struct {
	Code            string `json:"code"`
	Theme           string `json:"theme"`
	BackgroundColor string `json:"backgroundColor"`
}

// handleGenerateFile renders a diagram into the caller's folder and returns
// the absolute path of the written PNG as text content.
func (s *Server) handleGenerateFile(ctx context.Context, args json.RawMessage) (*mcp.CallToolResult, error) {
	var a generateFileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	logger := requestLogger(ToolGenerateDiagramFile).WithFields(log.Fields{
		"folder": a.Folder,
		"name":   a.Name,
		"theme":  a.Theme,
	})
	logger.Info("rendering diagram to file")

	if msg := validateCode(a.Code); msg != "" {
		return errorResult(msg), nil
	}
	if strings.TrimSpace(a.Folder) == "" {
		return errorResult("folder must not be empty"), nil
	}
	if strings.TrimSpace(a.Name) == "" {
		return errorResult("name must not be empty"), nil
	}

	req := mermaid.Request{Code: a.Code, Theme: a.Theme, BackgroundColor: a.BackgroundColor}

	path, err := s.renderer.RenderFile(ctx, req, a.Folder, a.Name)
	if err != nil {
		return errorResult(normalizeError(logger, "file diagram generation", err)), nil
	}

	logger.WithField("output", path).Info("diagram saved")
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: path}},
	}, nil
}

// handleGenerateStream renders a diagram and returns the PNG inline as
// image content. The SDK base64-encodes the bytes on the wire.
func (s *Server) handleGenerateStream(ctx context.Context, args json.RawMessage) (*mcp.CallToolResult, error) {
	var a generateStreamArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	logger := requestLogger(ToolGenerateDiagramStream).WithField("theme", a.Theme)
	logger.Info("rendering diagram to stream")

	if msg := validateCode(a.Code); msg != "" {
		return errorResult(msg), nil
	}

	req := mermaid.Request{Code: a.Code, Theme: a.Theme, BackgroundColor: a.BackgroundColor}

	img, err := s.renderer.RenderImage(ctx, req)
	if err != nil {
		return errorResult(normalizeError(logger, "stream diagram generation", err)), nil
	}

	logger.WithFields(log.Fields{
		"bytes":  len(img.Data),
		"width":  img.Width,
		"height": img.Height,
	}).Info("diagram rendered")
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.ImageContent{Data: img.Data, MIMEType: img.MIMEType}},
	}, nil
}

// requestLogger mints a logger carrying the tool name and a fresh request
// id, so concurrent calls can be told apart in the log stream.
func requestLogger(tool string) *log.Entry {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return log.WithFields(log.Fields{
		"tool":       tool,
		"request_id": id.String(),
	})
}

// validateCode rejects empty or whitespace-only diagram source. Returns the
// caller-facing message, or "" when the code is acceptable.
func validateCode(code string) string {
	if strings.TrimSpace(code) == "" {
		return "code must not be empty"
	}
	return ""
}

// errorResult wraps a message as a tool-level error, the MCP equivalent of
// a raised exception: the call itself succeeded, the tool did not.
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// normalizeError logs a render failure with full internal detail and
// returns the single message the caller gets to see.
//
// Known failures keep their message verbatim: a missing mmdc install, a
// non-zero exit with the captured process output, or an unusable output
// destination. Anything else is reported behind a generic wrapper so
// internals do not leak into client-visible text.
func normalizeError(logger *log.Entry, op string, err error) string {
	var renderErr *mermaid.RenderError
	var destErr *mermaid.DestinationError

	switch {
	case errors.Is(err, mermaid.ErrMmdcNotFound):
		logger.WithError(err).Error("mmdc not found")
		return err.Error()

	case errors.As(err, &renderErr):
		logger.WithFields(log.Fields{
			"exit_code": renderErr.ExitCode,
			"stdout":    renderErr.Stdout,
			"stderr":    renderErr.Stderr,
		}).Error("mmdc failed to generate diagram")
		return renderErr.Error()

	case errors.As(err, &destErr):
		logger.WithField("path", destErr.Path).Error(destErr.Reason)
		return destErr.Error()

	default:
		logger.WithError(err).Errorf("unexpected error in %s", op)
		return fmt.Sprintf("an unexpected error occurred in %s: %v", op, err)
	}
}
