package social

import (
	"context"
	"fmt"
	"sort"
	"time"

	"birdfeed/pkg/logger"
	"birdfeed/pkg/models"
	"birdfeed/pkg/store"
	"birdfeed/pkg/store/keys"
	"birdfeed/pkg/telemetry"
	"birdfeed/pkg/validation"
)

// Messages fans each direct message out into both participants' thread
// copies plus a most-recent-message summary per partner, all in one batch.
// The summaries make the conversation list a single index walk.
type Messages struct {
	st    *store.Store
	users *Users
}

func NewMessages(st *store.Store, users *Users) *Messages {
	return &Messages{st: st, users: users}
}

// Send delivers text from one user to another.
func (m *Messages) Send(ctx context.Context, fromUID, toUID, text string) (*models.Message, error) {
	defer telemetry.Observe("messages.send", time.Now())
	if fromUID == toUID {
		return nil, ErrSelfMessage
	}
	if err := validation.ValidateMessageText(text); err != nil {
		return nil, err
	}
	if _, err := m.users.Get(ctx, toUID); err != nil {
		return nil, err
	}

	now := time.Now()
	msg := models.Message{
		ID:        keys.NewSortableID(now),
		Text:      text,
		FromUID:   fromUID,
		ToUID:     toUID,
		Timestamp: now.UTC().Unix(),
	}

	b := m.st.Batch()
	if err := b.Put(keys.GenMessageKey(fromUID, toUID, msg.ID), msg); err != nil {
		return nil, err
	}
	if err := b.Put(keys.GenMessageKey(toUID, fromUID, msg.ID), msg); err != nil {
		return nil, err
	}
	if err := b.Put(keys.GenRecentMsgKey(fromUID, toUID), msg); err != nil {
		return nil, err
	}
	if err := b.Put(keys.GenRecentMsgKey(toUID, fromUID), msg); err != nil {
		return nil, err
	}
	if err := b.Commit(ctx); err != nil {
		return nil, fmt.Errorf("send message %s -> %s: %w", fromUID, toUID, err)
	}
	logger.Debug("message_sent", "from", fromUID, "to", toUID, "id", msg.ID)
	return &msg, nil
}

// Thread returns the conversation between uid and partner, oldest-first.
func (m *Messages) Thread(ctx context.Context, uid, partnerUID string) ([]models.Message, error) {
	defer telemetry.Observe("messages.thread", time.Now())
	children, err := m.st.Children(ctx, keys.MessagesPrefix(uid, partnerUID))
	if err != nil {
		return nil, err
	}
	out := make([]models.Message, 0, len(children))
	// index order is newest-first; walk backwards for chat display order
	for i := len(children) - 1; i >= 0; i-- {
		var msg models.Message
		if err := m.st.Get(ctx, keys.GenMessageKey(uid, partnerUID, children[i].Key), &msg); err != nil {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

// Conversations returns uid's chat partners with the latest message of
// each, newest conversation first. Partners that no longer resolve are
// skipped.
func (m *Messages) Conversations(ctx context.Context, uid string) ([]models.Conversation, error) {
	defer telemetry.Observe("messages.conversations", time.Now())
	children, err := m.st.Children(ctx, keys.RecentMsgsPrefix(uid))
	if err != nil {
		return nil, err
	}
	out := make([]models.Conversation, 0, len(children))
	for _, c := range children {
		var msg models.Message
		if err := m.st.Get(ctx, keys.GenRecentMsgKey(uid, c.Key), &msg); err != nil {
			continue
		}
		partner, uerr := m.users.Get(ctx, c.Key)
		if uerr != nil {
			logger.Warn("conversation_skip_dangling", "uid", c.Key)
			continue
		}
		out = append(out, models.Conversation{User: partner, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Message.Timestamp > out[j].Message.Timestamp
	})
	return out, nil
}
