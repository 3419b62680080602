// Package api serves the price windows and operational endpoints over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"FuelSentinel/internal/collector"
	"FuelSentinel/internal/model"
)

const (
	dateLayout    = "2006-01-02"
	defaultWindow = 8 // days before today when from is omitted
)

// PriceRanger fetches an arbitrary price window.
type PriceRanger interface {
	Today() time.Time
	Range(ctx context.Context, category model.Category, from, to time.Time) (model.PriceSeries, error)
}

// NewRouter builds the HTTP routes.
func NewRouter(prices PriceRanger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/anre", func(r chi.Router) {
		r.Get("/petrol-price", priceHandler(prices, model.Petrol))
		r.Get("/diesel-price", priceHandler(prices, model.Diesel))
	})
	return r
}

// NewServer wraps the router in an http.Server listening on addr.
func NewServer(addr string, prices PriceRanger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(prices),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// priceResponse mirrors the upstream table shape: [[epochMillis, price], ...].
type priceResponse struct {
	Data [][2]json.Number `json:"data"`
}

func priceHandler(prices PriceRanger, category model.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := prices.Today()
		from, err := parseDate(r.URL.Query().Get("from"), today.AddDate(0, 0, -defaultWindow), today.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid from: %v", err))
			return
		}
		to, err := parseDate(r.URL.Query().Get("to"), today, today.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid to: %v", err))
			return
		}
		if from.After(to) {
			writeError(w, http.StatusBadRequest, "from must not be after to")
			return
		}

		series, err := prices.Range(r.Context(), category, from, to)
		if err != nil {
			entry := log.WithFields(log.Fields{
				"category":   category,
				"from":       from.Format(dateLayout),
				"to":         to.Format(dateLayout),
				"request_id": middleware.GetReqID(r.Context()),
			}).WithError(err)
			if errors.Is(err, collector.ErrNoData) {
				entry.Info("no prices in window")
				writeJSON(w, http.StatusOK, priceResponse{Data: [][2]json.Number{}})
				return
			}
			entry.Error("fetch prices")
			writeError(w, http.StatusBadGateway, "price source unavailable")
			return
		}

		resp := priceResponse{Data: make([][2]json.Number, 0, len(series.Points))}
		for _, p := range series.Points {
			resp.Data = append(resp.Data, [2]json.Number{
				json.Number(fmt.Sprint(p.Time.UnixMilli())),
				json.Number(p.Price.String()),
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func parseDate(v string, def time.Time, loc *time.Location) (time.Time, error) {
	if v == "" {
		return def, nil
	}
	return time.ParseInLocation(dateLayout, v, loc)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{"message": message},
	})
}
