package models

// Message is one exchanged chat message.
type Message struct {
	ID        string   `json:"id"`
	Content   string   `json:"content"`
	IsUser    bool     `json:"isUser"`
	Timestamp int64    `json:"timestamp"` // epoch milliseconds
	Sources   []string `json:"sources,omitempty"`
}
