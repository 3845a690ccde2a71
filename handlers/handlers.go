package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/homequeen/api/middleware"
	"github.com/homequeen/api/services"
	"github.com/homequeen/api/services/audit"
	"github.com/homequeen/api/utils"
	"go.uber.org/zap"
)

// Responder carries what every handler needs to answer a request
type Responder struct {
	Logger *zap.Logger

	// ShowDetail exposes wrapped error text in 500 bodies. Off in production.
	ShowDetail bool
}

func (h Responder) fail(w http.ResponseWriter, r *http.Request, err error) {
	HandleServiceError(w, r, err, h.Logger, h.ShowDetail)
}

func (h Responder) write(w http.ResponseWriter, status int, data interface{}) {
	if err := utils.WriteJSON(w, status, data); err != nil {
		h.Logger.Error("failed to write response", zap.Error(err))
	}
}

func (h Responder) ok(w http.ResponseWriter, data interface{}) {
	if err := utils.WriteOK(w, data); err != nil {
		h.Logger.Error("failed to write response", zap.Error(err))
	}
}

func (h Responder) created(w http.ResponseWriter, data interface{}) {
	h.write(w, http.StatusCreated, data)
}

func (h Responder) ack(w http.ResponseWriter) {
	h.write(w, http.StatusOK, utils.OKResponse{OK: true})
}

// caller returns the authenticated identity. Routes that use it sit behind
// RequireAuth, so a missing identity is answered with 401.
func (h Responder) caller(w http.ResponseWriter, r *http.Request) (*middleware.Identity, bool) {
	id := middleware.IdentityFromContext(r.Context())
	if id == nil {
		h.fail(w, r, services.ErrAuthenticationRequired)
		return nil, false
	}
	return id, true
}

// pathID parses a UUID path parameter. A malformed id cannot name an owned
// row, so it is answered with notFound.
func (h Responder) pathID(w http.ResponseWriter, r *http.Request, name string, notFound error) (uuid.UUID, bool) {
	id, ok := utils.ParseUUID(chi.URLParam(r, name))
	if !ok {
		h.fail(w, r, notFound)
		return uuid.Nil, false
	}
	return id, true
}

// decode reads the JSON body into dst and validates it
func decode(r *http.Request, dst interface{}) error {
	if err := utils.DecodeJSON(r, dst); err != nil {
		return err
	}
	return utils.ValidateStruct(dst)
}

// requestMeta collects the audit fields of a request. RealIP has already
// replaced RemoteAddr when a proxy header was present.
func requestMeta(r *http.Request) audit.RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return audit.RequestMeta{
		RequestID: middleware.GetRequestIDFromContext(r.Context()),
		IPAddress: ip,
		UserAgent: r.UserAgent(),
	}
}

// parseDate accepts RFC 3339 timestamps and plain dates
func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, services.NewDomainError(services.ErrorTypeValidation, field+" must be a valid date", nil)
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryInt reads an optional integer query parameter within [lo, hi]
func queryInt(r *http.Request, name string, lo, hi int) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return nil, services.NewDomainError(services.ErrorTypeValidation,
			name+" must be an integer between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi), nil)
	}
	return &n, nil
}

// nullableString tells an absent JSON key apart from an explicit null
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}
