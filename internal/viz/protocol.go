package viz

import "damage-game/internal/eventlog"

const ProtocolVersion = "1.0"

const (
	MsgFollow       = "follow"
	MsgFollowResult = "follow_result"
	MsgEvent        = "event"
	MsgStreamEnd    = "stream_end"
)

type FollowMessage struct {
	Type   string `json:"type"`
	GameID string `json:"game_id"`
}

type FollowResult struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Ok              bool   `json:"ok"`
	Error           string `json:"error,omitempty"`
	GameID          string `json:"game_id,omitempty"`
}

type EventMessage struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	Seq             int            `json:"seq"`
	Event           eventlog.Event `json:"event"`
}

type StreamEnd struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	GameID          string `json:"game_id"`
	Error           string `json:"error,omitempty"`
}
