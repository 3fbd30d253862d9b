// Package webhook decodes event callbacks sent by the meeting platform.
//
// The platform calls a registered URL twice over its lifetime:
//
//   - once with GET ?check_str=<base64> to verify the URL; the endpoint must
//     answer with the decoded plain text,
//   - then with POST for every subscribed event; the body is {"data": "<base64 JSON>"}.
//
// Signature verification is not performed. Callers that need it must check
// the request before handing the body to [Client.ParseEvent].
package webhook

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meetingkit/pkg/clients"
	"github.com/matzehuels/meetingkit/pkg/errors"
)

// MaxBodySize bounds the event payloads accepted by [Client.Handler].
const MaxBodySize = 1 << 20

// Event is one decoded callback.
type Event struct {
	Name    string    `json:"event"` // e.g. "meeting.started"
	TraceID string    `json:"trace_id"`
	Payload []Payload `json:"payload"`
}

// Payload describes what happened in one event.
type Payload struct {
	OperateTime int64        `json:"operate_time"` // unix milliseconds
	Operator    Operator     `json:"operator"`
	Meeting     *MeetingInfo `json:"meeting_info,omitempty"`
	Recordings  []Recording  `json:"recording_files,omitempty"`
}

// Operator is the user who triggered the event.
type Operator struct {
	UserID     string `json:"userid"`
	UserName   string `json:"user_name"`
	InstanceID string `json:"instance_id,omitempty"`
}

// MeetingInfo summarizes the meeting an event refers to.
type MeetingInfo struct {
	MeetingID   string `json:"meeting_id"`
	MeetingCode string `json:"meeting_code"`
	Subject     string `json:"subject"`
	MeetingType int    `json:"meeting_type"`
	StartTime   int64  `json:"start_time"`
	EndTime     int64  `json:"end_time"`
}

// Recording references a recording file that became available.
type Recording struct {
	RecordFileID string `json:"record_file_id"`
}

// Client decodes callbacks. It performs no network I/O.
type Client struct {
	logger *log.Logger
}

// New creates a webhook decoder. It needs no credentials.
func New(p clients.Params) (*Client, error) {
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{logger: logger}, nil
}

// Kind implements clients.Handle.
func (c *Client) Kind() clients.Kind { return clients.KindWebhook }

// DecodeCheckString returns the plain text of a URL verification challenge.
func (c *Client) DecodeCheckString(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "check_str cannot be empty")
	}
	plain, err := decodeBase64(s)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "decode check_str")
	}
	return string(plain), nil
}

// ParseEvent decodes a POST body. The data field may be base64-encoded JSON
// (as sent by the platform) or an inline JSON object.
func (c *Client) ParseEvent(body []byte) (*Event, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode event envelope")
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "event envelope has no data")
	}

	raw := []byte(envelope.Data)
	var encoded string
	if json.Unmarshal(envelope.Data, &encoded) == nil {
		decoded, err := decodeBase64(encoded)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode event data")
		}
		raw = decoded
	}

	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode event")
	}
	if ev.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "event has no name")
	}
	return &ev, nil
}

// Handler serves the callback URL. Verification challenges are answered
// directly; decoded events are passed to fn. A fn error yields 500 so the
// platform redelivers.
func (c *Client) Handler(fn func(context.Context, *Event) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			plain, err := c.DecodeCheckString(r.URL.Query().Get("check_str"))
			if err != nil {
				http.Error(w, errors.UserMessage(err), http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			io.WriteString(w, plain)
		case http.MethodPost:
			body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize))
			if err != nil {
				http.Error(w, "read body", http.StatusBadRequest)
				return
			}
			ev, err := c.ParseEvent(body)
			if err != nil {
				c.logger.Warn("rejected webhook event", "err", err)
				http.Error(w, errors.UserMessage(err), http.StatusBadRequest)
				return
			}
			c.logger.Debug("webhook event", "event", ev.Name, "trace_id", ev.TraceID)
			if err := fn(r.Context(), ev); err != nil {
				c.logger.Error("webhook event handler failed", "event", ev.Name, "err", err)
				http.Error(w, "handler failed", http.StatusInternalServerError)
				return
			}
			io.WriteString(w, "successfully received callback")
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

func decodeBase64(s string) ([]byte, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(s)
}
