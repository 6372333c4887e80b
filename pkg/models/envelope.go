package models

// Envelope is the normalized event payload delivered by the messaging
// platform's event subscription. A non-empty Challenge marks a handshake
// verification request; the value must be echoed back verbatim instead of
// performing event handling.
type Envelope struct {
	Type      string `json:"type,omitempty"`
	Token     string `json:"token,omitempty"`
	TeamID    string `json:"team_id,omitempty"`
	APIAppID  string `json:"api_app_id,omitempty"`
	Challenge string `json:"challenge,omitempty"`
	EventTime int64  `json:"event_time,omitempty"`
	Event     Event  `json:"event,omitempty"`
}

// Event is the inner event object of an envelope. Optional fields decode
// to their zero value when absent; Slack subtypes and thread references
// are never empty strings, so presence checks compare against "".
type Event struct {
	Type        string `json:"type,omitempty"`
	User        string `json:"user,omitempty"`
	Channel     string `json:"channel,omitempty"`
	ChannelType string `json:"channel_type,omitempty"`
	Subtype     string `json:"subtype,omitempty"`
	TS          string `json:"ts,omitempty"`
	ThreadTS    string `json:"thread_ts,omitempty"`
	Text        string `json:"text,omitempty"`
	Reaction    string `json:"reaction,omitempty"`
	Item        Item   `json:"item,omitempty"`
}

// Item is the target of a reaction event.
type Item struct {
	Type    string `json:"type,omitempty"`
	Channel string `json:"channel,omitempty"`
	TS      string `json:"ts,omitempty"`
}
