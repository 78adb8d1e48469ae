package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/akuzmin/marketdesk/src/config"
	"github.com/akuzmin/marketdesk/src/services"
)

// Handler serves the interactive web surface. Every failure path ends in a
// rendered message and a stopped request; nothing is fatal to the process.
type Handler struct {
	cfg       *config.Config
	providers map[string]services.QuoteProvider
	appStore  *services.AppStoreClient
}

func New(cfg *config.Config) *Handler {
	return &Handler{
		cfg: cfg,
		providers: map[string]services.QuoteProvider{
			"nasdaq": services.NewNasdaqProvider(cfg),
			"yahoo":  services.NewYahooProvider(cfg),
		},
		appStore: services.NewAppStoreClient(cfg),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/api/option-quote", h.OptionQuote).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/api/reviews", h.Reviews).Methods(http.MethodGet, http.MethodPost)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("writeJSON: failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	if _, err := w.Write(data); err != nil {
		log.Errorf("writeAttachment: failed to write %s: %v", filename, err)
	}
}
