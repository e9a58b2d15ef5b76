package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"birdfeed/pkg/auth"
	"birdfeed/pkg/validation"
)

// CreatePost handles POST /v1/posts. A non-empty replyTo makes it a reply.
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caption string `json:"caption"`
		ReplyTo string `json:"replyTo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateCaption(req.Caption); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	actor := auth.Actor(r)
	if req.ReplyTo != "" {
		post, err := h.svc.Posts.Reply(r.Context(), actor, req.Caption, req.ReplyTo)
		if err != nil {
			serviceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, post)
		return
	}
	post, err := h.svc.Posts.Create(r.Context(), actor, req.Caption)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// GetPost handles GET /v1/posts/{id}, annotated with the viewer's like
// state when an actor is present.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	post, err := h.svc.Posts.Get(r.Context(), id)
	if err != nil {
		serviceError(w, err)
		return
	}
	if viewer := auth.Actor(r); viewer != "" {
		if liked, lerr := h.svc.Engagement.IsLiked(r.Context(), viewer, post.ID); lerr == nil {
			post.IsLiked = liked
		}
	}
	writeJSON(w, http.StatusOK, post)
}

// RecentPosts handles GET /v1/posts/recent?limit=<n>.
func (h *Handlers) RecentPosts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	posts, err := h.svc.Posts.Recent(r.Context(), limit)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// PostReplies handles GET /v1/posts/{id}/replies.
func (h *Handlers) PostReplies(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.Posts.RepliesTo(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Retweet handles POST /v1/posts/{id}/retweet.
func (h *Handlers) Retweet(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Posts.Retweet(r.Context(), auth.Actor(r), mux.Vars(r)["id"]); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// UserPosts handles GET /v1/users/{uid}/posts (profile tweets tab).
func (h *Handlers) UserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.Posts.ByAuthor(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// UserReplies handles GET /v1/users/{uid}/replies (profile replies tab).
func (h *Handlers) UserReplies(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.Posts.RepliesBy(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// UserLikes handles GET /v1/users/{uid}/likes (profile likes tab).
func (h *Handlers) UserLikes(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.Engagement.LikedPosts(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// HomeTimeline handles GET /v1/timeline for the acting user.
func (h *Handlers) HomeTimeline(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.Timeline.Home(r.Context(), auth.Actor(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Like handles POST /v1/posts/{id}/like.
func (h *Handlers) Like(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Engagement.Like(r.Context(), auth.Actor(r), mux.Vars(r)["id"]); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Unlike handles DELETE /v1/posts/{id}/like.
func (h *Handlers) Unlike(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Engagement.Unlike(r.Context(), auth.Actor(r), mux.Vars(r)["id"]); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// PostLikers handles GET /v1/posts/{id}/likers.
func (h *Handlers) PostLikers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Engagement.Likers(r.Context(), mux.Vars(r)["id"], auth.Actor(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
