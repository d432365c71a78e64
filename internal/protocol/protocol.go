// Package protocol defines the wire messages between a trainer and the
// reward service. One session is one trainer: HELLO/WELCOME handshake,
// then STEP -> REWARD request/response pairs, with RESET at episode
// boundaries.
package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeStep    = "STEP"
	TypeReward  = "REWARD"
	TypeReset   = "RESET"
	TypeResetOK = "RESET_OK"
	TypeError   = "ERROR"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
