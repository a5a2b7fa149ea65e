package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"english-assistant/internal/auth"
	"english-assistant/internal/handlers"
	"english-assistant/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService     service.ChatService
	QuizService     service.QuizService
	ScrambleService service.ScrambleService
	NoteService     service.NoteService
	UserService     service.UserService

	Tokens   *auth.TokenManager
	Google   handlers.GoogleSignIn    // nil when Google sign-in is not configured
	Renderer handlers.MarkdownRenderer // optional
	DB       handlers.Pinger

	FrontendURL string
	CORSOrigins []string

	// RateLimitMax requests per RateLimitWindow per client; 0 disables limiting.
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(deps.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	chatHandler := handlers.NewChatHandler(deps.ChatService, deps.Renderer)
	quizHandler := handlers.NewQuizHandler(deps.QuizService)
	scrambleHandler := handlers.NewScrambleHandler(deps.ScrambleService)
	noteHandler := handlers.NewNoteHandler(deps.NoteService)
	authHandler := handlers.NewAuthHandler(deps.Google, deps.Tokens, deps.UserService, deps.FrontendURL)
	requireAuth := RequireAuth(deps.Tokens)

	aiRoutes := func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Post("/quiz/generate", quizHandler.Generate)
		r.Get("/quiz/quick", quizHandler.Quick)
		r.Post("/quiz/quick", quizHandler.Quick)
		r.Method(http.MethodPost, "/scramble/generate", scrambleHandler)
	}

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimitMax > 0 {
			r.Use(NewRateLimiter(deps.RateLimitMax, deps.RateLimitWindow).Middleware)
		}

		// Legacy unversioned paths for the AI endpoints.
		aiRoutes(r)

		r.Route("/v1", func(r chi.Router) {
			aiRoutes(r)

			r.Route("/auth", func(r chi.Router) {
				r.Get("/google", authHandler.GoogleLogin)
				r.Get("/google/callback", authHandler.GoogleCallback)
				r.Get("/google/failure", authHandler.GoogleFailure)

				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Get("/verify", authHandler.Verify)
					r.Get("/me", authHandler.Me)
					r.Post("/logout", authHandler.Logout)
					r.Put("/audience", authHandler.UpdateAudience)
					r.Put("/language", authHandler.UpdateLanguage)
					r.Put("/profile", authHandler.UpdateProfile)
				})
			})

			r.Route("/notes", func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/", noteHandler.GetAll)
				r.Post("/", noteHandler.Create)
				r.Post("/default", noteHandler.CreateDefault)
				r.Get("/stats", noteHandler.Stats)
				r.Get("/search", noteHandler.Search)
				r.Get("/{category}", noteHandler.List)
				r.Get("/{category}/{itemId}", noteHandler.Get)
				r.Put("/{category}/{itemId}", noteHandler.Update)
				r.Delete("/{category}/{itemId}", noteHandler.Delete)
				r.Patch("/{category}/{itemId}/toggle-learned", noteHandler.ToggleLearned)
			})
		})
	})

	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true,"message":"English Learning API is running","version":"v1"}` + "\n"))
	})

	return r
}
