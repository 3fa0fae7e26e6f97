package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// Marshal encodes a message for the wire, falling back to an empty object on
// encoding failure so the send channel never sees a nil frame.
func Marshal(action string, payload interface{}) []byte {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		return []byte("{}")
	}
	return data
}

// NewErrorMessage builds an error frame for a single client.
func NewErrorMessage(message string) []byte {
	return Marshal("error", map[string]string{"message": message})
}

// NewViewStateMessage builds a frame carrying the shared view-state.
func NewViewStateMessage(payload interface{}) []byte {
	return Marshal("view_state", payload)
}

// NewFeedUpdateMessage builds a frame announcing a new feed snapshot.
func NewFeedUpdateMessage(payload interface{}) []byte {
	return Marshal("feed_update", payload)
}

// NewSystemStatsMessage builds a frame carrying host resource usage.
func NewSystemStatsMessage(payload interface{}) []byte {
	return Marshal("system_stats", payload)
}
