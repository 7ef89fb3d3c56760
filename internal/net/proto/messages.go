package proto

import (
	"encoding/json"
	"fmt"
)

// Message type identifiers. Snapshots intentionally carry no type field;
// they are recognized by the presence of the players map.
const (
	TypeInit  = "init"
	TypeInput = "input"
)

// Match status values carried in snapshots. StatusConnecting is client-side
// only: it is what the interpolator reports before the first snapshot
// arrives, and is never sent by the server.
const (
	StatusWaiting    = "WAITING_FOR_PLAYERS"
	StatusPlaying    = "PLAYING"
	StatusConnecting = "CONNECTING"
)

// InitMessage assigns the client its player identity. It is the only
// message exempt from artificial latency.
type InitMessage struct {
	Type string `json:"type" jsonschema:"enum=init"`
	ID   int64  `json:"id" jsonschema:"minimum=1"`
}

// InputMessage carries the client's latest directional intent. A nil
// Direction means "stop"; clients send it only when the held direction
// changes, never per frame.
type InputMessage struct {
	Type      string  `json:"type" jsonschema:"enum=input"`
	Direction *string `json:"direction"`
}

// PlayerView is the read-only projection of a player inside a snapshot.
// The server's pending-input slot is deliberately absent.
type PlayerView struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Color [3]uint8 `json:"color"`
	Score int      `json:"score" jsonschema:"minimum=0"`
}

// CoinView is a live coin inside a snapshot.
type CoinView struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// StateSnapshot is the complete world copy broadcast once per tick. T is
// the server timestamp in float seconds; the integer player ids key the
// players object as decimal strings on the wire.
type StateSnapshot struct {
	T       float64              `json:"t"`
	Players map[int64]PlayerView `json:"players"`
	Coins   []CoinView           `json:"coins"`
	Status  string               `json:"status" jsonschema:"enum=WAITING_FOR_PLAYERS,enum=PLAYING"`
}

// NewInit builds an identity assignment message.
func NewInit(id int64) InitMessage {
	return InitMessage{Type: TypeInit, ID: id}
}

// EncodeInit renders an init message.
func EncodeInit(id int64) ([]byte, error) {
	return json.Marshal(NewInit(id))
}

// EncodeInput renders an input message. Pass nil to signal "stop".
func EncodeInput(direction *string) ([]byte, error) {
	return json.Marshal(InputMessage{Type: TypeInput, Direction: direction})
}

// EncodeSnapshot renders a state snapshot, normalizing nil collections so
// the wire always carries an object and an array.
func EncodeSnapshot(s StateSnapshot) ([]byte, error) {
	if s.Players == nil {
		s.Players = map[int64]PlayerView{}
	}
	if s.Coins == nil {
		s.Coins = []CoinView{}
	}
	return json.Marshal(s)
}

// ServerMessage is the decoded form of one server-to-client payload.
// Exactly one of Init and Snapshot is set.
type ServerMessage struct {
	Init     *InitMessage
	Snapshot *StateSnapshot
}

// DecodeServerMessage classifies and decodes a server payload. Unknown
// shapes are an error so the caller can discard and log them.
func DecodeServerMessage(data []byte) (ServerMessage, error) {
	var probe struct {
		Type    string          `json:"type"`
		Players json.RawMessage `json:"players"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ServerMessage{}, err
	}

	if probe.Type == TypeInit {
		var init InitMessage
		if err := json.Unmarshal(data, &init); err != nil {
			return ServerMessage{}, err
		}
		if init.ID <= 0 {
			return ServerMessage{}, fmt.Errorf("init message with non-positive id %d", init.ID)
		}
		return ServerMessage{Init: &init}, nil
	}

	if len(probe.Players) > 0 {
		var snapshot StateSnapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return ServerMessage{}, err
		}
		return ServerMessage{Snapshot: &snapshot}, nil
	}

	return ServerMessage{}, fmt.Errorf("unrecognized server message type %q", probe.Type)
}

// DecodeInput decodes a client input message.
func DecodeInput(data []byte) (InputMessage, error) {
	var msg InputMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return InputMessage{}, err
	}
	if msg.Type != TypeInput {
		return InputMessage{}, fmt.Errorf("unexpected client message type %q", msg.Type)
	}
	return msg, nil
}
