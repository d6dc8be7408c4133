package subscription

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"waitlist-api/pkg/clients/llm"
	"waitlist-api/pkg/clients/mail"
	"waitlist-api/pkg/clients/sheets"
)

// Service handles HTTP requests for waitlist subscriptions. It depends on the
// store, generator and sender interfaces rather than concrete implementations,
// keeping the HTTP layer decoupled from the external providers.
type Service struct {
	store     sheets.Store
	generator llm.Generator
	mailer    mail.Sender
}

// NewService creates a subscription Service with the given dependencies.
func NewService(store sheets.Store, generator llm.Generator, mailer mail.Sender) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("service: store cannot be nil")
	}
	if generator == nil {
		return nil, fmt.Errorf("service: generator cannot be nil")
	}
	if mailer == nil {
		return nil, fmt.Errorf("service: mailer cannot be nil")
	}
	return &Service{store: store, generator: generator, mailer: mailer}, nil
}

type contextKey string

const requestIDKey contextKey = "requestId"

// jsonMiddleware sets the Content-Type header to application/json
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestIDMiddleware assigns each request an ID for log correlation,
// honoring one supplied by an upstream proxy.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", rid)
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) LoadRoutes(router *mux.Router) {
	router.StrictSlash(false)
	router.Use(requestIDMiddleware, jsonMiddleware)

	router.HandleFunc("/health", s.HandleHealth).Methods("GET")
	router.HandleFunc("/subscribe", s.HandleSubscribe).Methods("POST")
}

// reqID extracts the request ID from context (set by requestIDMiddleware).
func reqID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}
