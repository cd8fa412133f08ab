package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/eventra-io/eventra/internal/apperr"
	"github.com/eventra-io/eventra/internal/identity"
	"github.com/eventra-io/eventra/internal/prompt"
)

// contextRequest carries the optional event selector for a context
// build; each role's interpretation is documented on handleContext.
type contextRequest struct {
	EventID string `json:"event_id,omitempty"`
}

type contextResponse struct {
	Scope  interface{} `json:"scope"`
	Prompt string      `json:"prompt"`
}

type executeRequest struct {
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
}

type toolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

// handleToolsList returns the caller's tool catalogue. The role comes
// from the authenticated identity; there is no way to request another
// role's catalogue.
func (s *Server) handleToolsList(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.From(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "no acting identity")
		return
	}
	catalog, ok := s.catalogs[id.Role]
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no tool catalogue for role")
		return
	}
	defs := catalog.List()
	tools := make([]toolInfo, 0, len(defs))
	for _, d := range defs {
		tools = append(tools, toolInfo{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: json.RawMessage(d.InputSchema),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"role": id.Role, "tools": tools})
}

// handleContext builds the caller's scope snapshot and its rendered
// brief in one response. Clients must name an event. Venues get the
// tenant-wide view by default and the single-event view when event_id
// is present. Vendors always get their restricted cross-event view.
func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.From(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "no acting identity")
		return
	}
	var req contextRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
	}

	var (
		sc       interface{}
		rendered string
		err      error
	)
	switch id.Role {
	case identity.RoleClient:
		if req.EventID == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "event_id is required for client context")
			return
		}
		cs, buildErr := s.builder.BuildClientScope(r.Context(), id, req.EventID)
		if buildErr == nil {
			sc, rendered = cs, prompt.RenderClient(cs)
		}
		err = buildErr
	case identity.RoleVenue:
		if req.EventID == "" {
			vs, buildErr := s.builder.BuildVenueTenantScope(r.Context(), id)
			if buildErr == nil {
				sc, rendered = vs, prompt.RenderVenueTenant(vs)
			}
			err = buildErr
		} else {
			vs, buildErr := s.builder.BuildVenueEventScope(r.Context(), id, req.EventID)
			if buildErr == nil {
				sc, rendered = vs, prompt.RenderVenueEvent(vs)
			}
			err = buildErr
		}
	case identity.RoleVendor:
		vs, buildErr := s.builder.BuildVendorScope(r.Context(), id)
		if buildErr == nil {
			sc, rendered = vs, prompt.RenderVendor(vs)
		}
		err = buildErr
	default:
		writeError(w, http.StatusForbidden, "forbidden", "unknown role")
		return
	}
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contextResponse{Scope: sc, Prompt: rendered})
}

// handleToolExecute dispatches one tool call and returns the uniform
// result envelope. Dispatch outcomes are carried in the envelope, not
// the HTTP status; only transport-level problems use error statuses.
func (s *Server) handleToolExecute(w http.ResponseWriter, r *http.Request) {
	id, ok := identity.From(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "no acting identity")
		return
	}
	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.Tool == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "tool is required")
		return
	}
	result := s.dispatcher.Execute(r.Context(), id.Role, req.Tool, req.Arguments, id)
	writeJSON(w, http.StatusOK, result)
}

// writeAppError maps a tagged error to an HTTP status. NotFound and
// Unauthorized share a 404 with the collapsed public message so the
// status code can't confirm a foreign entity exists.
func writeAppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.NotFound, apperr.Unauthorized:
		writeError(w, http.StatusNotFound, "not_found", apperr.PublicMessage(err))
	case apperr.ValidationError:
		writeError(w, http.StatusBadRequest, "validation_error", apperr.PublicMessage(err))
	case apperr.PreconditionFailed:
		writeError(w, http.StatusConflict, "precondition_failed", apperr.PublicMessage(err))
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
