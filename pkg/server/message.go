package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"

	"github.com/elix-dev/elix/internal/errors"
	"github.com/elix-dev/elix/pkg/behavior"
)

// Frame types sent to the client.
const (
	FrameRender = "render"
	FrameEvent  = "event"
	FrameError  = "error"
	FramePong   = "pong"
)

// messagePing asks for a pong instead of being dispatched.
const messagePing = "ping"

// ErrInvalidMessage is matched by errors for client messages that cannot be
// decoded.
var ErrInvalidMessage = errors.New("E040")

// clientMessage is one input message from the browser.
type clientMessage struct {
	Type   string `json:"type"`
	Key    string `json:"key,omitempty"`
	Button int    `json:"button,omitempty"`
	Index  *int   `json:"index,omitempty"`
	Target string `json:"target,omitempty"`
	Detail any    `json:"detail,omitempty"`
}

// Frame is one message to the browser.
type Frame struct {
	Type    string `json:"type"`
	HTML    string `json:"html,omitempty"`
	Name    string `json:"name,omitempty"`
	Detail  any    `json:"detail,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func decodeMessage(data []byte) (clientMessage, error) {
	var msg clientMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&msg); err != nil {
		return msg, errors.New("E040").Wrap(err)
	}
	if dec.More() {
		return msg, errors.New("E040").WithDetail("trailing data after message")
	}
	if msg.Type == "" {
		return msg, errors.New("E040").WithDetail("message has no type")
	}
	return msg, nil
}

// event converts the message to the event handed to the element.
// A missing index means the input did not hit an item.
func (m clientMessage) event() behavior.Event {
	ev := behavior.Event{
		Type:   m.Type,
		Key:    m.Key,
		Button: m.Button,
		Index:  -1,
		Target: m.Target,
		Detail: m.Detail,
	}
	if m.Index != nil {
		ev.Index = *m.Index
	}
	return ev
}

// errorFrame describes err for the client, with its code when it has one.
func errorFrame(err error) Frame {
	var ee *errors.ElixError
	if stderrors.As(err, &ee) {
		return Frame{Type: FrameError, Code: ee.Code, Message: ee.Error()}
	}
	return Frame{Type: FrameError, Message: err.Error()}
}
