package transporthttp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"example.com/travelanalytics/internal/config"
	"example.com/travelanalytics/internal/domain"
	"example.com/travelanalytics/internal/ingest"
	"example.com/travelanalytics/internal/tracker"
)

// Readiness is implemented by dependencies that can report reachability.
type Readiness interface {
	Ready(ctx context.Context) error
}

type ServerDeps struct {
	Cfg      config.Config
	Sessions *tracker.Sessions
	Runner   *ingest.Runner
	// Ready is nil when the service runs without a database.
	Ready Readiness
	Now   func() time.Time
}

func decodeJSONStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// --- Health ---

func (d *ServerDeps) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (d *ServerDeps) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	if d.Ready != nil {
		if err := d.Ready.Ready(r.Context()); err != nil {
			WriteProblem(w, http.StatusServiceUnavailable, "not ready", "catalog database not reachable", nil)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}

// session returns the caller's session after applying its auth headers.
func (d *ServerDeps) session(r *http.Request) *tracker.Session {
	sess := d.Sessions.Get(SessionID(r.Context()))
	sess.Auth.Update(authState(r))
	return sess
}

// --- Events ---

func (d *ServerDeps) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	defer DrainBody(r)
	name := r.PathValue("name")
	rt, ok := routes[name]
	if !ok {
		WriteProblem(w, http.StatusNotFound, "unknown event", "no event named "+name, nil)
		return
	}
	var req eventRequest
	if err := decodeJSONStrict(r, &req); err != nil {
		WriteProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	if prob := rt.validate(&req); prob != nil {
		WriteProblem(w, http.StatusBadRequest, "validation failed", "one or more fields are invalid", prob)
		return
	}

	sess := d.session(r)
	if !rt.send(r.Context(), sess.Tracker, req) {
		log.Debug().Str("event", name).Str("session_id", sess.ID).Msg("duplicate view skipped")
		writeStatus(w, http.StatusOK, "skipped")
		return
	}
	writeStatus(w, http.StatusAccepted, "dispatched")
}

// --- Purchases ---

type purchaseReq struct {
	ReservationID int64              `json:"reservation_id"`
	TourID        int64              `json:"tour_id"`
	Payment       domain.PaymentInfo `json:"payment"`
	ListID        string             `json:"list_id"`
	ListName      string             `json:"list_name"`
}

func (d *ServerDeps) HandlePostPurchase(w http.ResponseWriter, r *http.Request) {
	defer DrainBody(r)
	var req purchaseReq
	if err := decodeJSONStrict(r, &req); err != nil {
		WriteProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return
	}
	if errs := domain.ValidatePurchase(req.ReservationID, req.TourID, &req.Payment); len(errs) > 0 {
		WriteProblem(w, http.StatusBadRequest, "validation failed", "one or more fields are invalid", fieldProblems("", errs, nil))
		return
	}

	sess := d.session(r)
	job := ingest.Job{
		SessionID: sess.ID,
		Tracker:   sess.Tracker,
		Request: tracker.PurchaseRequest{
			ReservationID: req.ReservationID,
			TourID:        req.TourID,
			Payment:       req.Payment,
			ListID:        req.ListID,
			ListName:      req.ListName,
		},
	}
	if ok := d.Runner.Enqueue(job); !ok {
		WriteProblem(w, http.StatusServiceUnavailable, "overloaded", "purchase queue is full, please retry", nil)
		return
	}
	log.Info().
		Str("session_id", sess.ID).
		Int64("reservation_id", req.ReservationID).
		Str("transaction_id", req.Payment.TransactionID).
		Msg("purchase queued")
	writeStatus(w, http.StatusAccepted, "queued")
}

// --- Sessions ---

func (d *ServerDeps) HandleResetDedup(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, ok := d.Sessions.Lookup(id)
	if !ok {
		WriteProblem(w, http.StatusNotFound, "unknown session", "no session "+id, nil)
		return
	}
	sess.Tracker.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// HandleEndSession drops the session, for a front end tearing down its page.
func (d *ServerDeps) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !d.Sessions.End(id) {
		WriteProblem(w, http.StatusNotFound, "unknown session", "no session "+id, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Router ---

func (d *ServerDeps) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", d.HandleHealthz)
	mux.HandleFunc("GET /readyz", d.HandleReadyz)

	var postEvent http.Handler = http.HandlerFunc(d.HandlePostEvent)
	postEvent = WithSession(postEvent)
	postEvent = BodyLimit(d.Cfg.MaxBodyBytes)(postEvent)
	postEvent = RequireJSON(postEvent)
	postEvent = APIKeyAuth(d.Cfg.APIKeys())(postEvent)
	mux.Handle("POST /v1/events/{name}", postEvent)

	var postPurchase http.Handler = http.HandlerFunc(d.HandlePostPurchase)
	postPurchase = WithSession(postPurchase)
	postPurchase = BodyLimit(d.Cfg.MaxBodyBytes)(postPurchase)
	postPurchase = RequireJSON(postPurchase)
	postPurchase = RateLimitPerMinute(d.Cfg.PurchaseRatePerMin, d.Now)(postPurchase)
	postPurchase = APIKeyAuth(d.Cfg.APIKeys())(postPurchase)
	mux.Handle("POST /v1/purchases", postPurchase)

	var reset http.Handler = http.HandlerFunc(d.HandleResetDedup)
	reset = APIKeyAuth(d.Cfg.APIKeys())(reset)
	mux.Handle("DELETE /v1/sessions/{id}/dedup", reset)

	var end http.Handler = http.HandlerFunc(d.HandleEndSession)
	end = APIKeyAuth(d.Cfg.APIKeys())(end)
	mux.Handle("DELETE /v1/sessions/{id}", end)

	return mux
}
