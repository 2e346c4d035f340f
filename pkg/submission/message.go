package submission

import "strconv"

// Message is the unit of feedback delivered to the error sink. A Message with
// Visible false clears whatever was shown before.
//
// Two messages are distinct UI events whenever their timestamps differ, even
// when Value repeats; UIs should key rendering on Key.
type Message struct {
	Value     string `json:"value"`
	Visible   bool   `json:"visible"`
	Timestamp int64  `json:"timestamp"`
}

// ClearMessage returns a message that hides any previous error.
func ClearMessage(timestamp int64) Message {
	return Message{Timestamp: timestamp}
}

// ShowMessage returns a message that displays value.
func ShowMessage(value string, timestamp int64) Message {
	return Message{Value: value, Visible: true, Timestamp: timestamp}
}

// Key identifies the message for re-render purposes.
func (m Message) Key() string {
	if !m.Visible {
		return "-" + strconv.FormatInt(m.Timestamp, 10)
	}
	return m.Value + "-" + strconv.FormatInt(m.Timestamp, 10)
}
