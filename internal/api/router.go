// Package api exposes the BizTask dashboard over HTTP and websocket.
package api

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/samhotchkiss/biztask/internal/middleware"
	"github.com/samhotchkiss/biztask/internal/workspace"
	"github.com/samhotchkiss/biztask/internal/ws"
)

var startTime = time.Now()

type HealthResponse struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	Version    string `json:"version"`
	Timestamp  string `json:"timestamp"`
	Workspaces int    `json:"workspaces"`
}

// Options wires the router to its dependencies.
type Options struct {
	Registry *workspace.Registry
	Hub      *ws.Hub
	// Gatherer serves /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger

	CORSAllowedOrigins []string
	WSAllowedOrigins   []string
}

// NewRouter builds the HTTP handler. The caller runs the hub.
func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	allowedOrigins := opts.CORSAllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.WorkspaceHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	health := &healthHandler{registry: opts.Registry}
	r.Get("/health", health.ServeHTTP)
	r.Get("/", handleRoot)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Workspace)

		r.Handle("/ws", &ws.Handler{
			Hub:            opts.Hub,
			AllowedOrigins: opts.WSAllowedOrigins,
			OnConnect: func(workspaceID string) (func(), error) {
				_, release, err := opts.Registry.Acquire(workspaceID)
				return release, err
			},
			Logger: opts.Logger,
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(chimiddleware.SetHeader("Content-Type", "application/json"))

			session := &SessionHandler{Registry: opts.Registry}
			r.Get("/session", session.Get)
			r.Post("/session/login", session.Login)
			r.Post("/session/logout", session.Logout)
			r.Post("/session/theme/toggle", session.ToggleTheme)
			r.Post("/session/onboarding/complete", session.CompleteOnboarding)
			r.Get("/menu", session.Menu)

			people := &PeopleHandler{Registry: opts.Registry}
			r.Get("/users", people.ListUsers)
			r.Post("/employees", people.AddEmployee)
			r.Get("/candidates", people.ListCandidates)
			r.Post("/candidates/{id}/hire", people.HireCandidate)
			r.Get("/departments", people.ListDepartments)
			r.Get("/partners", people.ListPartners)

			tasks := &TaskHandler{Registry: opts.Registry}
			r.Get("/tasks", tasks.ListTasks)
			r.Post("/tasks", tasks.CreateTask)
			r.Get("/tasks/{id}", tasks.GetTask)
			r.Patch("/tasks/{id}/status", tasks.UpdateTaskStatus)

			projects := &ProjectHandler{Registry: opts.Registry}
			r.Get("/projects", projects.ListProjects)
			r.Post("/projects", projects.CreateProject)

			insights := &InsightHandler{Registry: opts.Registry}
			r.Get("/dashboard", insights.Dashboard)
			r.Get("/stats/kpi", insights.KPI)
			r.Get("/calendar", insights.Calendar)

			channels := &ChannelHandler{Registry: opts.Registry}
			r.Get("/channels", channels.ListChannels)
			r.Get("/channels/active", channels.GetActive)
			r.Put("/channels/active", channels.SetActive)
			r.Get("/channels/{id}/messages", channels.ListMessages)
			r.Post("/channels/{id}/messages", channels.SendMessage)

			assistant := &AssistantHandler{Registry: opts.Registry}
			r.Get("/assistant", assistant.Get)
			r.Post("/assistant/open", assistant.Open)
			r.Post("/assistant/close", assistant.Close)
			r.Post("/assistant/toggle", assistant.Toggle)
			r.Put("/assistant/draft", assistant.SetDraft)
			r.Post("/assistant/messages", assistant.SendMessage)
		})
	})

	return r
}

type healthHandler struct {
	registry *workspace.Registry
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Version:   getVersion(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if h.registry != nil {
		resp.Workspaces = h.registry.Len()
	}

	sendJSON(w, http.StatusOK, resp)
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"name":    "BizTask",
		"tagline": "Team tasks, projects and chat in one dashboard",
		"api":     "/api",
		"health":  "/health",
	})
}

func getVersion() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}
