package models

type Message struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	FromUID string `json:"fromId"`
	ToUID   string `json:"toId"`
	// Timestamp is unix seconds
	Timestamp int64 `json:"timestamp"`
}

// PartnerOf returns the other participant relative to uid.
func (m *Message) PartnerOf(uid string) string {
	if m.FromUID == uid {
		return m.ToUID
	}
	return m.FromUID
}

// Conversation pairs a chat partner with the most recent message exchanged.
type Conversation struct {
	User    *User   `json:"user"`
	Message Message `json:"message"`
}
