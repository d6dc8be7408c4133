package subscription

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	netmail "net/mail"
)

// maxRequestBody limits the size of the subscribe request body to prevent abuse.
const maxRequestBody = 1 << 20 // 1MB

// HandleHealth reports liveness.
func (s *Service) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleSubscribe validates the address and runs the subscribe pipeline:
// append the waitlist row, generate the welcome copy, deliver it, mark the
// row sent. A step failure maps to a 500 naming the stage that broke; only
// the terminal mark-sent step is best-effort.
func (s *Service) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	rid := reqID(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		slog.Warn("failed to decode request body", "requestId", rid, "error", err)
		writeDetailJSON(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !validEmail(body.Email) {
		slog.Warn("rejected invalid email address", "requestId", rid)
		writeDetailJSON(w, "invalid email address", http.StatusUnprocessableEntity)
		return
	}

	slog.Debug("handling subscription", "requestId", rid, "email", body.Email)

	if stepErr := s.runPipeline(r.Context(), body.Email, rid); stepErr != nil {
		slog.Error("subscribe pipeline failed",
			"requestId", rid,
			"stage", stepErr.Stage,
			"error", stepErr.Err,
		)
		writeDetailJSON(w, fmt.Sprintf("%s error: %v", stepErr.Stage, stepErr.Err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "success",
		"message": "Subscribed successfully!",
	})
}

// validEmail accepts a bare, syntactically valid address. net/mail also
// allows display names and angle brackets, which are not valid subscribe
// input, so the parsed address must round-trip unchanged.
func validEmail(s string) bool {
	addr, err := netmail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// writeDetailJSON writes the error payload shape the frontend expects:
// {"detail": "<message>"}.
func writeDetailJSON(w http.ResponseWriter, detail string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
