package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/matesnake/internal/core"
)

// MessageKind classifies datagrams sent by controllers.
type MessageKind int

const (
	MsgNew    MessageKind = iota // /controller/new/<port>
	MsgPing                      // /controller/<uid>/ping/<port>
	MsgStates                    // /controller/<uid>/states/<bits>
	MsgText                      // /controller/<uid>/text/<text>
	MsgBye                       // /controller/<uid>/kthxbye
)

// Message is a parsed controller datagram.
type Message struct {
	Kind   MessageKind
	UID    string
	Port   int    // reply port for MsgNew and MsgPing
	States string // one '0'/'1' per button for MsgStates
	Text   string
}

// ErrMalformed is returned for datagrams that are not controller messages.
var ErrMalformed = errors.New("controller: malformed message")

// ParseMessage decodes one controller datagram.
func ParseMessage(data []byte) (Message, error) {
	raw := strings.TrimSpace(string(data))
	parts := strings.SplitN(strings.TrimPrefix(raw, "/"), "/", 4)
	if len(parts) < 3 || parts[0] != "controller" {
		return Message{}, fmt.Errorf("%w: %q", ErrMalformed, raw)
	}

	if parts[1] == "new" {
		port, err := parsePort(parts[2])
		if err != nil {
			return Message{}, err
		}
		return Message{Kind: MsgNew, Port: port}, nil
	}

	uid := parts[1]
	if uid == "" {
		return Message{}, fmt.Errorf("%w: empty uid", ErrMalformed)
	}

	switch parts[2] {
	case "kthxbye":
		return Message{Kind: MsgBye, UID: uid}, nil
	case "ping":
		if len(parts) < 4 {
			return Message{}, fmt.Errorf("%w: ping without port", ErrMalformed)
		}
		port, err := parsePort(parts[3])
		if err != nil {
			return Message{}, err
		}
		return Message{Kind: MsgPing, UID: uid, Port: port}, nil
	case "states":
		if len(parts) < 4 || !validStates(parts[3]) {
			return Message{}, fmt.Errorf("%w: bad states", ErrMalformed)
		}
		return Message{Kind: MsgStates, UID: uid, States: parts[3]}, nil
	case "text":
		text := ""
		if len(parts) == 4 {
			text = parts[3]
		}
		return Message{Kind: MsgText, UID: uid, Text: text}, nil
	}

	return Message{}, fmt.Errorf("%w: unknown command %q", ErrMalformed, parts[2])
}

// UIDMessage is the reply telling a new controller its uid.
func UIDMessage(uid string) []byte {
	return []byte("/uid/" + uid)
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%w: bad port %q", ErrMalformed, s)
	}
	return port, nil
}

func validStates(s string) bool {
	if len(s) == 0 || len(s) > core.ButtonCount {
		return false
	}
	for _, r := range s {
		if r != '0' && r != '1' {
			return false
		}
	}
	return true
}

// DiffStates turns two button state strings into key events for uid.
// Buttons missing from a short string count as released.
func DiffStates(uid, prev, next string) []core.Event {
	var events []core.Event
	for i := range core.ButtonCount {
		was := i < len(prev) && prev[i] == '1'
		is := i < len(next) && next[i] == '1'
		switch {
		case is && !was:
			events = append(events, core.Event{Kind: core.EventKeyDown, UID: uid, Button: core.Button(i)})
		case was && !is:
			events = append(events, core.Event{Kind: core.EventKeyUp, UID: uid, Button: core.Button(i)})
		}
	}
	return events
}
