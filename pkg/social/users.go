package social

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"birdfeed/pkg/blob"
	"birdfeed/pkg/logger"
	"birdfeed/pkg/models"
	"birdfeed/pkg/store"
	"birdfeed/pkg/store/keys"
	"birdfeed/pkg/telemetry"
	"birdfeed/pkg/validation"
)

// Users maintains the user registry: the primary record under the uid and
// the username lookup index, kept consistent in one batch per mutation.
type Users struct {
	st    *store.Store
	blobs blob.Store

	// serializes username-index mutations so two concurrent registrations
	// cannot both claim the same name between check and commit
	mu sync.Mutex
}

func NewUsers(st *store.Store, blobs blob.Store) *Users {
	return &Users{st: st, blobs: blobs}
}

// Register creates the user record and claims the username in one atomic
// batch. Duplicate usernames are rejected with ErrUsernameTaken.
func (u *Users) Register(ctx context.Context, user models.User) error {
	defer telemetry.Observe("users.register", time.Now())
	if err := validation.ValidateUser(user); err != nil {
		return err
	}
	user.IsFollowed = false
	user.Stats = nil

	u.mu.Lock()
	defer u.mu.Unlock()

	if taken, err := u.usernameTaken(ctx, user.Username, user.UID); err != nil {
		return err
	} else if taken {
		return ErrUsernameTaken
	}
	if exists, err := u.st.Has(ctx, keys.GenUserKey(user.UID)); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("uid %s already registered", user.UID)
	}

	b := u.st.Batch()
	if err := b.Put(keys.GenUserKey(user.UID), user); err != nil {
		return err
	}
	if err := b.Put(keys.GenUsernameKey(user.Username), user.UID); err != nil {
		return err
	}
	if err := b.Commit(ctx); err != nil {
		return fmt.Errorf("register %s: %w", user.UID, err)
	}
	logger.Info("user_registered", "uid", user.UID, "username", user.Username)
	return nil
}

// Get fetches the user record for uid.
func (u *Users) Get(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	if err := u.st.Get(ctx, keys.GenUserKey(uid), &user); err != nil {
		return nil, fmt.Errorf("user %s: %w", uid, err)
	}
	user.UID = uid
	return &user, nil
}

// GetByUsername resolves a username through the lookup index.
func (u *Users) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var uid string
	if err := u.st.Get(ctx, keys.GenUsernameKey(username), &uid); err != nil {
		return nil, fmt.Errorf("username %s: %w", username, err)
	}
	return u.Get(ctx, uid)
}

// List returns every registered user in uid order. It backs the explore
// and search surfaces; entries that fail to decode are skipped.
func (u *Users) List(ctx context.Context) ([]*models.User, error) {
	children, err := u.st.Children(ctx, keys.UserPrefix())
	if err != nil {
		return nil, err
	}
	out := make([]*models.User, 0, len(children))
	for _, c := range children {
		user, gerr := u.Get(ctx, c.Key)
		if gerr != nil {
			logger.Warn("user_list_skip", "uid", c.Key, "error", gerr)
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

// ProfileUpdate holds the editable profile fields; nil pointers leave the
// stored value untouched.
type ProfileUpdate struct {
	Fullname        *string
	Username        *string
	Bio             *string
	ProfileImageURL *string
}

// UpdateProfile applies a profile edit. A username change re-points the
// username index in the same batch that rewrites the record.
func (u *Users) UpdateProfile(ctx context.Context, uid string, p ProfileUpdate) (*models.User, error) {
	defer telemetry.Observe("users.update_profile", time.Now())

	u.mu.Lock()
	defer u.mu.Unlock()

	user, err := u.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	oldUsername := user.Username
	if p.Fullname != nil {
		user.Fullname = *p.Fullname
	}
	if p.Username != nil {
		user.Username = *p.Username
	}
	if p.Bio != nil {
		user.Bio = *p.Bio
	}
	if p.ProfileImageURL != nil {
		user.ProfileImageURL = *p.ProfileImageURL
	}
	if err := validation.ValidateUser(*user); err != nil {
		return nil, err
	}

	b := u.st.Batch()
	if user.Username != oldUsername {
		if taken, terr := u.usernameTaken(ctx, user.Username, uid); terr != nil {
			return nil, terr
		} else if taken {
			return nil, ErrUsernameTaken
		}
		b.Delete(keys.GenUsernameKey(oldUsername))
		if err := b.Put(keys.GenUsernameKey(user.Username), uid); err != nil {
			return nil, err
		}
	}
	stored := *user
	stored.IsFollowed = false
	stored.Stats = nil
	if err := b.Put(keys.GenUserKey(uid), stored); err != nil {
		return nil, err
	}
	if err := b.Commit(ctx); err != nil {
		return nil, fmt.Errorf("update profile %s: %w", uid, err)
	}
	logger.Info("profile_updated", "uid", uid)
	return user, nil
}

// SetProfileImage stores the avatar bytes in the blob store and points the
// profile at the resulting URL.
func (u *Users) SetProfileImage(ctx context.Context, uid string, data []byte) (string, error) {
	if u.blobs == nil {
		return "", fmt.Errorf("no blob store configured")
	}
	if _, err := u.Get(ctx, uid); err != nil {
		return "", err
	}
	url, err := u.blobs.Put(uid+"_avatar.jpg", data)
	if err != nil {
		return "", err
	}
	if _, err := u.UpdateProfile(ctx, uid, ProfileUpdate{ProfileImageURL: &url}); err != nil {
		return "", err
	}
	return url, nil
}

func (u *Users) usernameTaken(ctx context.Context, username, selfUID string) (bool, error) {
	var owner string
	err := u.st.Get(ctx, keys.GenUsernameKey(username), &owner)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return owner != selfUID, nil
}
