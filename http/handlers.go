package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"diabetescheck/accuracy"
	"diabetescheck/db"
	"diabetescheck/feedback"
	"diabetescheck/i18n"
	"diabetescheck/ml"
	"diabetescheck/patient"
	"diabetescheck/session"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

const (
	sessionCookie = "session_id"
	sessionHeader = "X-Session-ID"
)

// Metrics is the subset of monitoring.Metrics the handlers update.
type Metrics interface {
	SessionCreated()
	ValidationFailed(field string)
	Handler() http.Handler
}

// Options carries the dependencies of the API. Stream and Metrics may be nil.
type Options struct {
	Predictor *ml.Predictor
	Sessions  *session.Store
	Recorder  *feedback.Recorder
	Stream    http.Handler
	Metrics   Metrics
	Password  string
	Locale    language.Tag
	Logger    *zap.Logger
}

// API serves the form endpoints.
type API struct {
	predictor *ml.Predictor
	sessions  *session.Store
	recorder  *feedback.Recorder
	stream    http.Handler
	metrics   Metrics
	password  string
	locale    language.Tag
	logger    *zap.Logger
}

// NewAPI builds the API. A nil Logger is replaced by a no-op logger and an
// empty Password leaves session creation open.
func NewAPI(opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locale := opts.Locale
	if locale == language.Und {
		locale = i18n.Portuguese
	}
	return &API{
		predictor: opts.Predictor,
		sessions:  opts.Sessions,
		recorder:  opts.Recorder,
		stream:    opts.Stream,
		metrics:   opts.Metrics,
		password:  opts.Password,
		locale:    locale,
		logger:    logger,
	}
}

// Register mounts every endpoint on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/session", a.handleCreateSession)
	mux.Handle("GET /api/session", a.requireSession(a.handleGetSession))
	mux.Handle("POST /api/predict", a.requireSession(a.handlePredict))
	mux.Handle("POST /api/feedback", a.requireSession(a.handleFeedback))
	mux.Handle("POST /api/analysis/reset", a.requireSession(a.handleReset))
	mux.Handle("GET /api/accuracy", a.requireSession(a.handleAccuracy))
	mux.Handle("GET /api/predictions", a.requireSession(a.handlePredictions))
	if a.stream != nil {
		mux.Handle("GET /api/ws/accuracy", a.requireSession(a.stream.ServeHTTP))
	}
	if a.metrics != nil {
		mux.Handle("GET /metrics", a.metrics.Handler())
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: code, Message: message})
}

func (a *API) localizer(r *http.Request) *i18n.Localizer {
	return i18n.New(i18n.Match(r.Header.Get("Accept-Language"), a.locale))
}

func (a *API) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(sessionHeader)
		if id == "" {
			if c, err := r.Cookie(sessionCookie); err == nil {
				id = c.Value
			}
		}
		if id == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", a.localizer(r).Text(i18n.ErrUnauthorized))
			return
		}
		if _, err := a.sessions.Get(id); err != nil {
			writeError(w, http.StatusUnauthorized, "session_not_found", a.localizer(r).Text(i18n.ErrSessionNotFound))
			return
		}
		next(w, r.WithContext(withSessionID(r.Context(), id)))
	})
}

type createSessionRequest struct {
	Password string `json:"password"`
}

func (a *API) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	loc := a.localizer(r)
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", loc.Text(i18n.ErrBadRequest))
		return
	}
	if a.password != "" && subtle.ConstantTimeCompare([]byte(req.Password), []byte(a.password)) != 1 {
		a.logger.Info("login rejected", zap.String("request_id", GetRequestID(r.Context())))
		writeError(w, http.StatusUnauthorized, "wrong_password", loc.Text(i18n.ErrWrongPassword))
		return
	}

	sess := a.sessions.Create()
	if a.metrics != nil {
		a.metrics.SessionCreated()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
	respondJSON(w, http.StatusCreated, sess)
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := a.sessions.Get(GetSessionID(r.Context()))
	if err != nil {
		a.sessionError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

type predictResponse struct {
	Outcome         ml.Outcome      `json:"outcome"`
	Patient         patient.Patient `json:"patient"`
	Message         string          `json:"message"`
	FirstPrediction bool            `json:"first_prediction"`
	AskFeedback     string          `json:"ask_feedback"`
}

func (a *API) handlePredict(w http.ResponseWriter, r *http.Request) {
	loc := a.localizer(r)
	var p patient.Patient
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", loc.Text(i18n.ErrBadRequest))
		return
	}

	if err := patient.Validate(p); err != nil {
		var verr *patient.ValidationError
		if !errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, "bad_request", loc.Text(i18n.ErrBadRequest))
			return
		}
		resp := errorResponse{
			Error:   "invalid_input",
			Message: loc.InvalidFieldMessage(verr.First().Field),
		}
		for _, f := range verr.Fields {
			resp.Fields = append(resp.Fields, fieldError{Field: f.Field, Message: loc.InvalidFieldMessage(f.Field)})
			if a.metrics != nil {
				a.metrics.ValidationFailed(f.Field)
			}
		}
		respondJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	outcome, err := a.predictor.Predict(r.Context(), p)
	if err != nil {
		a.logger.Error("prediction failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "model_error", loc.Text(i18n.ErrModel))
		return
	}

	first, err := a.sessions.RecordPrediction(GetSessionID(r.Context()), p, outcome)
	if err != nil {
		a.sessionError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, predictResponse{
		Outcome:         outcome,
		Patient:         p,
		Message:         loc.OutcomeMessage(outcome.Diabetic),
		FirstPrediction: first,
		AskFeedback:     loc.Text(i18n.AskFeedback),
	})
}

type feedbackRequest struct {
	Correct *bool `json:"correct"`
}

type feedbackResponse struct {
	Message  string           `json:"message"`
	Record   db.Record        `json:"record"`
	Accuracy *accuracy.Report `json:"accuracy,omitempty"`
}

func (a *API) handleFeedback(w http.ResponseWriter, r *http.Request) {
	loc := a.localizer(r)
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Correct == nil {
		writeError(w, http.StatusBadRequest, "bad_request", loc.Text(i18n.ErrBadRequest))
		return
	}

	rec, report, err := a.recorder.Record(r.Context(), GetSessionID(r.Context()), *req.Correct)
	resp := feedbackResponse{Message: loc.FeedbackMessage(*req.Correct), Record: rec}
	switch {
	case err == nil:
		resp.Accuracy = &report
	case rec.ID != 0:
		// saved, but the report could not be rebuilt
		a.logger.Warn("accuracy report failed", zap.Error(err))
	default:
		a.sessionError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (a *API) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, err := a.sessions.Reset(GetSessionID(r.Context()))
	if err != nil {
		a.sessionError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

func (a *API) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	report, err := a.recorder.Report(r.Context())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (a *API) handlePredictions(w http.ResponseWriter, r *http.Request) {
	records, err := a.recorder.Records(r.Context())
	if err != nil {
		a.internalError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total": len(records),
		"data":  records,
	})
}

func (a *API) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	loc := a.localizer(r)
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusUnauthorized, "session_not_found", loc.Text(i18n.ErrSessionNotFound))
	case errors.Is(err, session.ErrNoPrediction):
		writeError(w, http.StatusConflict, "no_prediction", loc.Text(i18n.ErrNoPrediction))
	case errors.Is(err, session.ErrFeedbackRecorded):
		writeError(w, http.StatusConflict, "feedback_recorded", loc.Text(i18n.ErrFeedbackTwice))
	default:
		a.internalError(w, r, err)
	}
}

func (a *API) internalError(w http.ResponseWriter, r *http.Request, err error) {
	a.logger.Error("request failed",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal", a.localizer(r).Text(i18n.ErrInternal))
}
