package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"

	"github.com/akuzmin/marketdesk/src/models"
	"github.com/akuzmin/marketdesk/src/services"
	"github.com/akuzmin/marketdesk/src/utils"
)

// OptionQuoteRequest is the form/query payload of the quote endpoint. Either
// a Nasdaq option-chain URL or a symbol plus code must be supplied.
type OptionQuoteRequest struct {
	Provider string `schema:"provider"`
	Symbol   string `schema:"symbol"`
	Code     string `schema:"code"`
	URL      string `schema:"url"`
	Format   string `schema:"format"`
}

func (h *Handler) OptionQuote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}

	req := new(OptionQuoteRequest)
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(req, r.Form); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	symbol := strings.TrimSpace(req.Symbol)
	code := strings.TrimSpace(req.Code)

	if req.URL != "" {
		parsed, err := services.ParseSymbolFromNasdaqURL(req.URL)
		if err != nil && symbol == "" {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err == nil {
			symbol = parsed
		}
		if code == "" {
			code = req.URL
		}
	}

	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required (or a Nasdaq option-chain URL)")
		return
	}
	if code == "" {
		writeError(w, http.StatusBadRequest, "option code is required")
		return
	}

	providerName := req.Provider
	if providerName == "" {
		providerName = "nasdaq"
	}

	provider, ok := h.providers[providerName]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown provider %q", providerName))
		return
	}

	requestID := uuid.New()
	logFn := func(msg string) {
		log.WithField("requestID", requestID).Info(msg)
	}

	quote, err := services.NewResolver(provider).GetOptionQuoteByCode(r.Context(), symbol, code, logFn)
	if err != nil {
		log.WithField("requestID", requestID).Errorf("OptionQuote: %v", err)
		writeError(w, quoteErrorStatus(err), err.Error())
		return
	}

	if req.Format == "csv" {
		data, err := utils.QuotesCSV([]*models.OptionQuote{quote})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		filename := fmt.Sprintf("%s_%s_quote.csv", quote.Underlying, quote.OptionCode)
		writeAttachment(w, "text/csv; charset=utf-8", filename, data)
		return
	}

	data, err := utils.QuoteJSON(quote)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if _, err := w.Write(data); err != nil {
		log.Errorf("OptionQuote: failed to write response: %v", err)
	}
}

// quoteErrorStatus maps resolver failures onto http statuses; the body always
// carries the full operator-facing message.
func quoteErrorStatus(err error) int {
	var invalidInput *models.InvalidInputError
	var invalidFormat *models.InvalidFormatError
	var calendarErr *models.CalendarError
	var notFound *models.NotFoundError

	switch {
	case errors.As(err, &invalidInput), errors.As(err, &invalidFormat), errors.As(err, &calendarErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
