package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"birdfeed/pkg/api/handlers"
	"birdfeed/pkg/auth"
	"birdfeed/pkg/social"
	"birdfeed/pkg/store"
)

// Handler builds the full HTTP surface: public reads, actor-scoped writes,
// health endpoints, and prometheus metrics.
func Handler(svc *social.Services, st *store.Store, rateCfg auth.RateConfig) http.Handler {
	h := handlers.New(svc)
	r := mux.NewRouter()
	r.Use(auth.RateLimit(rateCfg))
	// actor identity is optional on public reads but still drives the
	// viewer-relative annotations there
	r.Use(auth.ExtractActor)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !st.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"not ready"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// public reads
	r.HandleFunc("/v1/users", h.ListUsers).Methods(http.MethodGet)
	r.HandleFunc("/v1/users/by-username/{username}", h.GetUserByUsername).Methods(http.MethodGet)
	r.HandleFunc("/v1/users/{uid}/followers", h.Followers).Methods(http.MethodGet)
	r.HandleFunc("/v1/users/{uid}/following", h.Following).Methods(http.MethodGet)
	r.HandleFunc("/v1/users/{uid}/posts", h.UserPosts).Methods(http.MethodGet)
	r.HandleFunc("/v1/users/{uid}/replies", h.UserReplies).Methods(http.MethodGet)
	r.HandleFunc("/v1/users/{uid}/likes", h.UserLikes).Methods(http.MethodGet)
	r.HandleFunc("/v1/users/{uid}", h.GetUser).Methods(http.MethodGet)
	r.HandleFunc("/v1/posts/recent", h.RecentPosts).Methods(http.MethodGet)
	r.HandleFunc("/v1/posts/{id}/replies", h.PostReplies).Methods(http.MethodGet)
	r.HandleFunc("/v1/posts/{id}/likers", h.PostLikers).Methods(http.MethodGet)
	r.HandleFunc("/v1/posts/{id}", h.GetPost).Methods(http.MethodGet)

	// registration carries its own identity in the body
	r.HandleFunc("/v1/users", h.CreateUser).Methods(http.MethodPost)

	// actor-scoped operations
	actor := r.PathPrefix("/v1").Subrouter()
	actor.Use(auth.RequireActor)
	actor.HandleFunc("/users/{uid}/follow", h.Follow).Methods(http.MethodPost)
	actor.HandleFunc("/users/{uid}/follow", h.Unfollow).Methods(http.MethodDelete)
	actor.HandleFunc("/users/{uid}/avatar", h.SetProfileImage).Methods(http.MethodPut)
	actor.HandleFunc("/users/{uid}", h.UpdateProfile).Methods(http.MethodPut)
	actor.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	actor.HandleFunc("/posts/{id}/like", h.Like).Methods(http.MethodPost)
	actor.HandleFunc("/posts/{id}/like", h.Unlike).Methods(http.MethodDelete)
	actor.HandleFunc("/posts/{id}/retweet", h.Retweet).Methods(http.MethodPost)
	actor.HandleFunc("/timeline", h.HomeTimeline).Methods(http.MethodGet)
	actor.HandleFunc("/notifications", h.Notifications).Methods(http.MethodGet)
	actor.HandleFunc("/notifications", h.RemoveAllNotifications).Methods(http.MethodDelete)
	actor.HandleFunc("/notifications/{id}", h.RemoveNotification).Methods(http.MethodDelete)
	actor.HandleFunc("/messages/{uid}", h.SendMessage).Methods(http.MethodPost)
	actor.HandleFunc("/messages/{uid}", h.MessageThread).Methods(http.MethodGet)
	actor.HandleFunc("/conversations", h.Conversations).Methods(http.MethodGet)

	return r
}
