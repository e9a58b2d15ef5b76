package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"birdfeed/pkg/auth"
	"birdfeed/pkg/models"
	"birdfeed/pkg/social"
	"birdfeed/pkg/validation"
)

// Handlers exposes the social services over JSON/HTTP.
type Handlers struct {
	svc *social.Services
}

func New(svc *social.Services) *Handlers {
	return &Handlers{svc: svc}
}

// CreateUser handles POST /v1/users.
func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateUser(u); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Users.Register(r.Context(), u); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// ListUsers handles GET /v1/users.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users.List(r.Context())
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetUser handles GET /v1/users/{uid}; the profile includes live relation
// stats and the viewer's follow state.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	user, err := h.svc.Users.Get(r.Context(), uid)
	if err != nil {
		serviceError(w, err)
		return
	}
	if stats, serr := h.svc.Graph.Stats(r.Context(), uid); serr == nil {
		user.Stats = &stats
	}
	if viewer := auth.Actor(r); viewer != "" && viewer != uid {
		if followed, ferr := h.svc.Graph.IsFollowing(r.Context(), viewer, uid); ferr == nil {
			user.IsFollowed = followed
		}
	}
	writeJSON(w, http.StatusOK, user)
}

// GetUserByUsername handles GET /v1/users/by-username/{username}.
func (h *Handlers) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Users.GetByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /v1/users/{uid}; only the profile owner may
// edit it.
func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	if auth.Actor(r) != uid {
		writeError(w, http.StatusForbidden, "profile belongs to another user")
		return
	}
	var p struct {
		Fullname        *string `json:"fullname"`
		Username        *string `json:"username"`
		Bio             *string `json:"bio"`
		ProfileImageURL *string `json:"profileImageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	user, err := h.svc.Users.UpdateProfile(r.Context(), uid, social.ProfileUpdate{
		Fullname:        p.Fullname,
		Username:        p.Username,
		Bio:             p.Bio,
		ProfileImageURL: p.ProfileImageURL,
	})
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SetProfileImage handles PUT /v1/users/{uid}/avatar with raw image bytes.
func (h *Handlers) SetProfileImage(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]
	if auth.Actor(r) != uid {
		writeError(w, http.StatusForbidden, "profile belongs to another user")
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "image too large")
		return
	}
	url, err := h.svc.Users.SetProfileImage(r.Context(), uid, data)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profileImageUrl": url})
}

// Follow handles POST /v1/users/{uid}/follow.
func (h *Handlers) Follow(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Graph.Follow(r.Context(), auth.Actor(r), mux.Vars(r)["uid"]); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Unfollow handles DELETE /v1/users/{uid}/follow.
func (h *Handlers) Unfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Graph.Unfollow(r.Context(), auth.Actor(r), mux.Vars(r)["uid"]); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Followers handles GET /v1/users/{uid}/followers.
func (h *Handlers) Followers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Graph.Followers(r.Context(), mux.Vars(r)["uid"], auth.Actor(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Following handles GET /v1/users/{uid}/following.
func (h *Handlers) Following(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Graph.Following(r.Context(), mux.Vars(r)["uid"])
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
