// Package api exposes the inbound transport: the event subscription
// endpoint plus liveness probes.
package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"keepnote/pkg/auth"
	"keepnote/pkg/ingest"
	"keepnote/pkg/logger"
	"keepnote/pkg/models"
	"keepnote/pkg/utils"
)

// maxEventBody bounds the accepted envelope size.
const maxEventBody = 1 << 20

// Handler returns the router with the event endpoint:
// - POST /slack/events: JSON envelope; echoes challenge handshakes,
//   otherwise applies the matching lifecycle transition.
// A non-empty signingSecret puts signature verification in front of the
// events route only; probes stay unauthenticated.
func Handler(t *ingest.Tracker, signingSecret string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	r.Handle("/slack/events", auth.RequireSignature(signingSecret, eventsHandler(t))).Methods(http.MethodPost)
	return r
}

func eventsHandler(t *ingest.Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
		if err != nil {
			utils.JSONError(w, http.StatusBadRequest, "unreadable body")
			return
		}
		var env models.Envelope
		if err := json.Unmarshal(body, &env); err != nil {
			utils.JSONError(w, http.StatusBadRequest, "invalid json")
			return
		}

		challenge, err := t.Handle(r.Context(), env)
		if challenge != "" {
			_ = utils.JSONWrite(w, http.StatusOK, map[string]string{"challenge": challenge})
			return
		}
		if err != nil {
			// Reportable condition (missing record or malformed event):
			// log it but answer 200 so the platform does not redeliver an
			// envelope that cannot succeed on retry.
			logger.Error("event_handling_failed",
				"type", env.Event.Type,
				"channel", env.Event.Channel,
				"error", err)
			_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		_ = utils.JSONWrite(w, http.StatusOK, map[string]any{"ok": true})
	}
}
