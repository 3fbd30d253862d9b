package clients

import (
	"strconv"
	"strings"

	"github.com/matzehuels/meetingkit/pkg/errors"
)

// Kind identifies one of the fixed API client types.
// The zero value is not a valid kind.
type Kind uint8

// The client kinds, in display order.
const (
	KindMeeting Kind = iota + 1
	KindUser
	KindRoom
	KindRecording
	KindWebhook
	KindSync
)

var kindNames = [...]string{
	KindMeeting:   "meeting",
	KindUser:      "user",
	KindRoom:      "room",
	KindRecording: "recording",
	KindWebhook:   "webhook",
	KindSync:      "sync",
}

// Kinds returns every kind in display order.
func Kinds() []Kind {
	return []Kind{KindMeeting, KindUser, KindRoom, KindRecording, KindWebhook, KindSync}
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= KindMeeting && k <= KindSync
}

// String returns the lowercase label of k, e.g. "meeting".
func (k Kind) String() string {
	if !k.Valid() {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// MarshalText encodes k as its label.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.New(errors.ErrCodeUnknownClientKind, "unknown client kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a label produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind returns the kind for label. Matching ignores case and
// surrounding spaces. Unknown labels fail with UNKNOWN_CLIENT_KIND.
func ParseKind(label string) (Kind, error) {
	s := strings.ToLower(strings.TrimSpace(label))
	for _, k := range Kinds() {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownClientKind, "unknown client kind %q", label)
}
