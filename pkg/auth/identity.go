package auth

import (
	"context"
	"net/http"
	"strings"

	"birdfeed/pkg/logger"
)

type ctxActorKey struct{}

// ActorHeader carries the opaque uid of the acting user. Session and
// credential management live outside this service; the header is trusted
// the way the presentation layer's auth gateway delivers it.
const ActorHeader = "X-Actor-ID"

// ExtractActor injects the actor uid into the request context when the
// header is present. It never rejects, so public reads can annotate
// viewer-relative fields; RequireActor stays the gate on writes.
func ExtractActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid := strings.TrimSpace(r.Header.Get(ActorHeader)); uid != "" {
			r = r.WithContext(context.WithValue(r.Context(), ctxActorKey{}, uid))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireActor rejects requests without an actor identity and injects the
// uid into the request context.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(r.Header.Get(ActorHeader))
		if uid == "" {
			logger.Warn("missing_actor_header", "path", r.URL.Path, "remote", r.RemoteAddr)
			http.Error(w, `{"error":"missing actor identity"}`, http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxActorKey{}, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Actor returns the acting uid from the request context, or "".
func Actor(r *http.Request) string {
	if v, ok := r.Context().Value(ctxActorKey{}).(string); ok {
		return v
	}
	return ""
}
