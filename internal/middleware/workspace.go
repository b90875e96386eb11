// Package middleware provides HTTP middleware for workspace scoping and
// request logging.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"
)

// ContextKey is the type for context keys in this package.
type ContextKey string

// WorkspaceIDKey is the context key for the current workspace ID.
const WorkspaceIDKey ContextKey = "workspace_id"

// DefaultWorkspaceID is used when a request names no workspace.
const DefaultWorkspaceID = "default"

// WorkspaceHeader carries the workspace id on API requests.
const WorkspaceHeader = "X-Workspace-ID"

var workspaceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidWorkspaceID reports whether id is an acceptable workspace id.
func ValidWorkspaceID(id string) bool {
	return workspaceIDPattern.MatchString(id)
}

// WorkspaceFromContext retrieves the workspace ID from the request context.
// Returns empty string if not set.
func WorkspaceFromContext(ctx context.Context) string {
	if v := ctx.Value(WorkspaceIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// WithWorkspace returns a copy of ctx scoped to workspaceID.
func WithWorkspace(ctx context.Context, workspaceID string) context.Context {
	return context.WithValue(ctx, WorkspaceIDKey, workspaceID)
}

// Workspace is middleware that scopes every request to a workspace.
// It reads the workspace from:
// 1. X-Workspace-ID header
// 2. workspace_id query parameter (websocket clients cannot set headers)
//
// Requests naming no workspace use DefaultWorkspaceID. A malformed id is
// rejected with 400 Bad Request.
func Workspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		workspaceID, ok := extractWorkspaceID(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid workspace id"}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithWorkspace(r.Context(), workspaceID)))
	})
}

// extractWorkspaceID returns the requested workspace and whether it is valid.
func extractWorkspaceID(r *http.Request) (string, bool) {
	if id := strings.TrimSpace(r.Header.Get(WorkspaceHeader)); id != "" {
		return id, ValidWorkspaceID(id)
	}
	if id := strings.TrimSpace(r.URL.Query().Get("workspace_id")); id != "" {
		return id, ValidWorkspaceID(id)
	}
	return DefaultWorkspaceID, true
}
