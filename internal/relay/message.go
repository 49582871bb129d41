package relay

import (
	"encoding/json"
	"fmt"
)

// ClientMessage is the parsed form of one inbound protocol frame:
// ["EVENT", event], ["REQ", subId, filter...] or ["CLOSE", subId].
type ClientMessage struct {
	Type    string
	Event   *Event
	SubID   string
	Filters []Filter
}

// ParseClientMessage decodes a raw WebSocket frame into a ClientMessage.
// COUNT and AUTH are recognized but unsupported; they come back with
// Type set so the manager can answer with a NOTICE instead of treating
// them as garbage.
func ParseClientMessage(raw []byte) (*ClientMessage, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, fmt.Errorf("%w: not a JSON array", ErrMalformedMessage)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrMalformedMessage)
	}

	var msgType string
	if err := json.Unmarshal(parts[0], &msgType); err != nil {
		return nil, fmt.Errorf("%w: message type must be a string", ErrMalformedMessage)
	}

	switch msgType {
	case "EVENT":
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: EVENT needs exactly 2 elements", ErrMalformedMessage)
		}
		var ev Event
		if err := json.Unmarshal(parts[1], &ev); err != nil {
			return nil, fmt.Errorf("%w: bad event payload", ErrMalformedMessage)
		}
		return &ClientMessage{Type: "EVENT", Event: &ev}, nil

	case "REQ":
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: REQ needs a subscription id", ErrMalformedMessage)
		}
		var subID string
		if err := json.Unmarshal(parts[1], &subID); err != nil {
			return nil, fmt.Errorf("%w: subscription id must be a string", ErrMalformedMessage)
		}
		filters := make([]Filter, 0, len(parts)-2)
		for _, part := range parts[2:] {
			var f Filter
			if err := json.Unmarshal(part, &f); err != nil {
				return nil, fmt.Errorf("%w: bad filter", ErrMalformedMessage)
			}
			filters = append(filters, f)
		}
		return &ClientMessage{Type: "REQ", SubID: subID, Filters: filters}, nil

	case "CLOSE":
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: CLOSE needs exactly 2 elements", ErrMalformedMessage)
		}
		var subID string
		if err := json.Unmarshal(parts[1], &subID); err != nil {
			return nil, fmt.Errorf("%w: subscription id must be a string", ErrMalformedMessage)
		}
		return &ClientMessage{Type: "CLOSE", SubID: subID}, nil

	case "COUNT", "AUTH":
		return &ClientMessage{Type: msgType}, nil

	default:
		return nil, fmt.Errorf("%w: unknown message type %q", ErrMalformedMessage, msgType)
	}
}

// Relay→client frames. Each marshals to the protocol's JSON array form.

func EventFrame(subID string, ev *Event) []byte {
	return mustFrame([]interface{}{"EVENT", subID, ev})
}

func OKFrame(eventID string, accepted bool, message string) []byte {
	return mustFrame([]interface{}{"OK", eventID, accepted, message})
}

func EOSEFrame(subID string) []byte {
	return mustFrame([]interface{}{"EOSE", subID})
}

func NoticeFrame(message string) []byte {
	return mustFrame([]interface{}{"NOTICE", message})
}

func ClosedFrame(subID, message string) []byte {
	return mustFrame([]interface{}{"CLOSED", subID, message})
}

func mustFrame(parts []interface{}) []byte {
	raw, err := json.Marshal(parts)
	if err != nil {
		// Frames are built from values we control; this cannot fail at runtime.
		panic(err)
	}
	return raw
}
