package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/TestimonialCarousel/internal/infra/catalog"
)

func main() {
	r := mux.NewRouter()
	r.HandleFunc("/testimonials", func(w http.ResponseWriter, r *http.Request) {
		// ?status=503 lets the catalog source's retries and breaker be exercised by hand.
		if status, err := strconv.Atoi(r.URL.Query().Get("status")); err == nil && status >= 400 {
			http.Error(w, http.StatusText(status), status)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		response := map[string]interface{}{
			"items": catalog.DefaultItems(),
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}).Methods(http.MethodGet)

	slog.Info("Mock testimonial feed running on :8081")
	if err := http.ListenAndServe(":8081", r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
