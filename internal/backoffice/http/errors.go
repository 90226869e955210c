package http

import (
	"net/http"

	"github.com/folioworks/backoffice/internal/backoffice/domain"
	"github.com/folioworks/backoffice/pkg/httpx"
	"github.com/folioworks/backoffice/pkg/slogx"
)

// writeError translates errors for the wire. Typed application errors
// carry their own status and {path, message} body. Anything else is
// logged and collapsed to the hardened 500; raw internals never reach
// the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if appErr, ok := domain.AsError(err); ok {
		if appErr.Status == domain.StatusTokenInvalidOrExpired {
			// The reset flow answers 498 with an empty body.
			httpx.NoCache(w)
			w.WriteHeader(appErr.Status)
			return
		}
		httpx.WriteJSON(w, appErr.Status, appErr)
		return
	}

	slogx.FromContext(r.Context()).Error("unhandled error", "error", err)
	internal := domain.ErrInternal()
	httpx.WriteJSON(w, internal.Status, internal)
}

// writeList answers 204 with no body for empty collections and 200 with
// the JSON array otherwise.
func writeList[T any](w http.ResponseWriter, items []T) {
	if len(items) == 0 {
		httpx.NoCache(w)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}
