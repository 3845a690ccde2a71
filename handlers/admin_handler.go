package handlers

import (
	"net/http"

	"github.com/homequeen/api/services/audit"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// AdminHandler exposes operator views
type AdminHandler struct {
	Responder
	audit *audit.Service
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(auditSvc *audit.Service, r Responder) *AdminHandler {
	return &AdminHandler{Responder: r, audit: auditSvc}
}

// HandleAudit handles GET /api/admin/audit?limit
func (h *AdminHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 1, maxAuditLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	n := defaultAuditLimit
	if limit != nil {
		n = *limit
	}

	logs, err := h.audit.ListRecent(r.Context(), n)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, logs)
}
