package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"finbot-backend/internal/handlers"
	"finbot-backend/internal/middleware"
)

func New(chatHandler *handlers.ChatHandler, chatRateLimit int) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)

	// Chat turns call out to the LLM; keep them rate limited per IP
	chatLimiter := middleware.NewRateLimiter(chatRateLimit, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(chatLimiter.Middleware)
		r.Get("/", chatHandler.Home)
		r.Post("/", chatHandler.Home)
	})

	r.Post("/pin_chat/{chatID}", chatHandler.PinChat)
	r.Post("/delete_chat/{chatID}", chatHandler.DeleteChat)
	r.Get("/media/{filename}", chatHandler.Media)

	return r
}
