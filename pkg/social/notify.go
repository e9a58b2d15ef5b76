package social

import (
	"context"
	"time"

	"birdfeed/pkg/logger"
	"birdfeed/pkg/models"
	"birdfeed/pkg/store"
	"birdfeed/pkg/store/keys"
	"birdfeed/pkg/telemetry"
)

// Notifier fans qualifying actions out into the recipient's notification
// index. Writes are fire-and-forget: a failed notification is logged and
// never fails or rolls back the action that triggered it.
type Notifier struct {
	st    *store.Store
	users *Users
}

func NewNotifier(st *store.Store, users *Users) *Notifier {
	return &Notifier{st: st, users: users}
}

// Notify records one notification under the recipient. Self-directed
// notifications are suppressed. postID may be empty for follow events.
func (n *Notifier) Notify(ctx context.Context, typ models.NotificationType, actorUID, recipientUID, postID string) {
	if !typ.Valid() {
		logger.Warn("notify_invalid_type", "type", string(typ))
		return
	}
	if actorUID == recipientUID || actorUID == "" || recipientUID == "" {
		return
	}
	now := time.Now()
	notif := models.Notification{
		ID:        keys.NewSortableID(now),
		ActorUID:  actorUID,
		Type:      typ,
		PostID:    postID,
		Timestamp: now.UTC().Unix(),
	}
	if err := n.st.Put(ctx, keys.GenNotificationKey(recipientUID, notif.ID), notif); err != nil {
		logger.Error("notify_write_failed", "type", string(typ), "recipient", recipientUID, "error", err)
		return
	}
	telemetry.Notifications.WithLabelValues(string(typ)).Inc()
	logger.Debug("notification_written", "type", string(typ), "actor", actorUID, "recipient", recipientUID)
}

// List returns the recipient's notifications newest-first, with actor
// records resolved. Follow-type entries are annotated with the live follow
// state so an undone follow does not claim an active badge. Entries whose
// actor no longer resolves are skipped.
func (n *Notifier) List(ctx context.Context, recipientUID string) ([]*models.Notification, error) {
	defer telemetry.Observe("notifications.list", time.Now())
	children, err := n.st.Children(ctx, keys.NotificationsPrefix(recipientUID))
	if err != nil {
		return nil, err
	}
	out := make([]*models.Notification, 0, len(children))
	for _, c := range children {
		var notif models.Notification
		if err := n.st.Get(ctx, keys.GenNotificationKey(recipientUID, c.Key), &notif); err != nil {
			continue
		}
		notif.ID = c.Key
		actor, aerr := n.users.Get(ctx, notif.ActorUID)
		if aerr != nil {
			logger.Warn("notification_skip_dangling_actor", "id", c.Key, "actor", notif.ActorUID)
			continue
		}
		notif.Actor = actor
		if notif.Type == models.NotifyFollow {
			following, ferr := n.st.Has(ctx, keys.GenFollowingKey(recipientUID, notif.ActorUID))
			if ferr == nil {
				notif.IsFollowing = following
			}
		}
		out = append(out, &notif)
	}
	return out, nil
}

// Remove deletes a single notification owned by the recipient.
func (n *Notifier) Remove(ctx context.Context, recipientUID, id string) error {
	return n.st.Delete(ctx, keys.GenNotificationKey(recipientUID, id))
}

// RemoveAll clears the recipient's notification index.
func (n *Notifier) RemoveAll(ctx context.Context, recipientUID string) error {
	return n.st.DeletePrefix(ctx, keys.NotificationsPrefix(recipientUID))
}
