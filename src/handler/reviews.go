package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"

	"github.com/akuzmin/marketdesk/src/models"
	"github.com/akuzmin/marketdesk/src/services"
	"github.com/akuzmin/marketdesk/src/utils"
)

// ReviewsRequest is the form/query payload of the reviews endpoint.
type ReviewsRequest struct {
	URL    string `schema:"url"`
	Max    int    `schema:"max"`
	Format string `schema:"format"`
}

// ReviewsResponse is the JSON shape of a collected review set.
type ReviewsResponse struct {
	AppID   string                  `json:"app_id"`
	Count   int                     `json:"count"`
	Summary *services.RatingSummary `json:"summary,omitempty"`
	Rows    []models.AppReview      `json:"rows"`
}

func (h *Handler) Reviews(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}

	req := new(ReviewsRequest)
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(req, r.Form); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	appID, err := services.ExtractAppID(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	maxReviews := req.Max
	if maxReviews <= 0 {
		maxReviews = 100
	}

	requestID := uuid.New()
	logFn := func(msg string) {
		log.WithField("requestID", requestID).Info(msg)
	}

	rows, err := h.appStore.CollectReviews(r.Context(), appID, maxReviews, logFn)
	if err != nil {
		log.WithField("requestID", requestID).Errorf("Reviews: %v", err)

		status := http.StatusBadGateway
		var invalidInput *models.InvalidInputError
		if errors.As(err, &invalidInput) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, "No reviews collected.")
		return
	}

	if req.Format == "csv" {
		data, _, err := utils.ReviewCSV(rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		ts := time.Now().UTC().Format("20060102_150405_UTC")
		filename := fmt.Sprintf("appstore_reviews_%s_%s.csv", appID, ts)
		writeAttachment(w, "text/csv; charset=utf-8", filename, data)
		return
	}

	resp := ReviewsResponse{
		AppID: appID,
		Count: len(rows),
		Rows:  rows,
	}

	if summary, err := services.SummarizeRatings(rows); err == nil {
		resp.Summary = &summary
	}

	writeJSON(w, http.StatusOK, resp)
}
