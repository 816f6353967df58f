package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"toolforge/internal/tools"
)

// maxArgsBytes bounds an invocation body.
const maxArgsBytes = 1 << 20

// toolHandler serves the REST view of the registry.
type toolHandler struct {
	registry Registry
	logger   zerolog.Logger
}

func newToolHandler(registry Registry, logger zerolog.Logger) *toolHandler {
	return &toolHandler{
		registry: registry,
		logger:   logger.With().Str("component", "tool_handler").Logger(),
	}
}

// ListResponse is the body of GET /tools.
type ListResponse struct {
	Success bool               `json:"success"`
	Count   int                `json:"count"`
	Tools   []tools.Descriptor `json:"tools"`
}

// ToolResponse is the body of GET /tools/{id}.
type ToolResponse struct {
	Success bool             `json:"success"`
	Tool    tools.Descriptor `json:"tool"`
}

// InvokeResponse is the body of a successful POST /tools/{id}/invoke.
type InvokeResponse struct {
	Success bool            `json:"success"`
	Tool    string          `json:"tool"`
	Result  json.RawMessage `json:"result"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Tool    string `json:"tool,omitempty"`
}

// List handles GET /tools
func (h *toolHandler) List(w http.ResponseWriter, r *http.Request) {
	descriptors := tools.DescribeAll(h.registry.List())
	render.JSON(w, r, ListResponse{
		Success: true,
		Count:   len(descriptors),
		Tools:   descriptors,
	})
}

// Get handles GET /tools/{id}
func (h *toolHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	tool, ok := h.registry.Get(id)
	if !ok {
		h.sendError(w, r, tools.NewToolNotFoundError(id))
		return
	}

	render.JSON(w, r, ToolResponse{Success: true, Tool: tools.Describe(tool)})
}

// Invoke handles POST /tools/{id}/invoke. The request body is the argument
// object.
func (h *toolHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxArgsBytes))
	if err != nil {
		h.sendError(w, r, tools.NewInvalidInputError(id, err))
		return
	}

	result, err := h.registry.Call(r.Context(), id, body)
	if err != nil {
		h.logger.Debug().
			Err(err).
			Str("tool", id).
			Msg("Invocation failed")
		h.sendError(w, r, err)
		return
	}

	render.JSON(w, r, InvokeResponse{Success: true, Tool: id, Result: result})
}

func (h *toolHandler) sendError(w http.ResponseWriter, r *http.Request, err error) {
	detail := ErrorDetail{Code: tools.CodeOf(err), Message: err.Error()}

	var toolErr *tools.ToolError
	if errors.As(err, &toolErr) {
		detail.Message = toolErr.Message
		detail.Tool = toolErr.ToolID
	}

	render.Status(r, statusFor(detail.Code))
	render.JSON(w, r, ErrorResponse{Success: false, Error: detail})
}

// statusFor maps a tool error code to the HTTP status of the REST response.
// Failures of the remote endpoint surface as 502.
func statusFor(code string) int {
	switch code {
	case tools.ErrInvalidInput:
		return http.StatusBadRequest
	case tools.ErrToolNotFound:
		return http.StatusNotFound
	case tools.ErrTransport, tools.ErrHTTPStatus, tools.ErrResponseParse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
