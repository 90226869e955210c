package http

import (
	"net/http"

	"github.com/folioworks/backoffice/internal/backoffice/service"
	"github.com/folioworks/backoffice/pkg/httpx"
)

type SessionsHandler struct {
	Sessions *service.SessionService
}

// HandleOwn returns the caller's current active session.
func (h *SessionsHandler) HandleOwn(w http.ResponseWriter, r *http.Request) {
	acct := elevatedIdentity(r)

	session, err := h.Sessions.OwnSession(r.Context(), acct.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, session)
}

// HandleList returns all sessions, optionally filtered by ownerId.
// Topmost clearance enforced by the route chain.
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("ownerId")

	sessions, err := h.Sessions.ListSessions(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, sessions)
}

// HandlePurge deletes revoked sessions and reports the count.
func (h *SessionsHandler) HandlePurge(w http.ResponseWriter, r *http.Request) {
	count, err := h.Sessions.PurgeInactive(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}
