// Package mcp serves the tool registry over MCP-style JSON-RPC.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"toolforge/internal/jsonrpc"
	"toolforge/internal/tools"
)

// ProtocolVersion is the MCP revision the handler speaks.
const ProtocolVersion = "2024-11-05"

// maxBodyBytes bounds a single JSON-RPC request.
const maxBodyBytes = 1 << 20

// Registry is the capability set served by the handler.
type Registry interface {
	List() []tools.Tool
	Call(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error)
}

// ServerInfo identifies the server in the initialize result.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Handler answers JSON-RPC requests for initialize, ping, tools/list and
// tools/call.
type Handler struct {
	registry Registry
	info     ServerInfo
	logger   zerolog.Logger
}

// NewHandler creates a new MCP handler.
func NewHandler(registry Registry, info ServerInfo, logger zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		info:     info,
		logger:   logger.With().Str("component", "mcp_handler").Logger(),
	}
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

type content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callResult struct {
	Content           []content       `json:"content"`
	StructuredContent json.RawMessage `json:"structuredContent,omitempty"`
	IsError           bool            `json:"isError"`
}

// ServeHTTP handles one JSON-RPC request per POST body.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.writeResponse(w, jsonrpc.NewErrorResponse(nil, jsonrpc.NewError(jsonrpc.ParseError, "could not read request body", nil)))
		return
	}
	defer r.Body.Close()

	req, rpcErr := jsonrpc.ParseRequest(body)
	if rpcErr != nil {
		var id json.RawMessage
		if req != nil {
			id = req.ID
		}
		h.writeResponse(w, jsonrpc.NewErrorResponse(id, rpcErr))
		return
	}

	if req.IsNotification() {
		h.logger.Debug().
			Str("method", req.Method).
			Msg("Notification received")
		w.WriteHeader(http.StatusAccepted)
		return
	}

	h.logger.Debug().
		Str("method", req.Method).
		RawJSON("id", req.ID).
		Msg("Request received")

	h.writeResponse(w, h.dispatch(r.Context(), req))
}

func (h *Handler) dispatch(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	switch req.Method {
	case "initialize":
		return jsonrpc.NewResult(req.ID, map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{"listChanged": false},
			},
			"serverInfo": h.info,
		})
	case "ping":
		return jsonrpc.NewResult(req.ID, map[string]any{})
	case "tools/list":
		return jsonrpc.NewResult(req.ID, map[string]any{
			"tools": tools.DescribeAll(h.registry.List()),
		})
	case "tools/call":
		return h.callTool(ctx, req)
	default:
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(jsonrpc.MethodNotFound, "Method not found", req.Method))
	}
}

// callTool reports tool failures inside the result with isError set, so the
// calling model can see them. Only protocol problems become JSON-RPC errors.
func (h *Handler) callTool(ctx context.Context, req *jsonrpc.Request) *jsonrpc.Response {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(jsonrpc.InvalidParams, "tools/call requires a tool name", nil))
	}

	out, err := h.registry.Call(ctx, params.Name, params.Arguments)
	if err != nil {
		var toolErr *tools.ToolError
		if errors.As(err, &toolErr) && toolErr.Code == tools.ErrToolNotFound {
			return jsonrpc.NewErrorResponse(req.ID, jsonrpc.NewError(jsonrpc.InvalidParams, toolErr.Message, params.Name))
		}
		h.logger.Debug().
			Err(err).
			Str("tool", params.Name).
			Msg("Tool call failed")
		return jsonrpc.NewResult(req.ID, callResult{
			Content: []content{{Type: "text", Text: err.Error()}},
			IsError: true,
		})
	}

	result := callResult{Content: []content{{Type: "text", Text: string(out)}}}
	if trimmed := bytes.TrimSpace(out); len(trimmed) > 0 && trimmed[0] == '{' {
		result.StructuredContent = out
	}
	return jsonrpc.NewResult(req.ID, result)
}

func (h *Handler) writeResponse(w http.ResponseWriter, resp *jsonrpc.Response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error().
			Err(err).
			Msg("Failed to encode JSON-RPC response")
	}
}
