package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"damage-game/internal/config"
	"damage-game/internal/logging"
	"damage-game/internal/viz"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// damage-watch follows one game through the visualizer's websocket and
// prints each event as it lands.
func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	closer, err := logging.Init(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(2)
	}
	defer closer.Close()

	cfg, err := config.LoadWatch()
	if err != nil {
		log.Fatal().Err(err).Msg("load watch config")
	}
	if len(os.Args) > 1 {
		cfg.GameID = os.Args[1]
	}
	if cfg.GameID == "" {
		log.Fatal().Msg("game id required: damage-watch <game_id> or DAMAGE_WATCH_GAME")
	}
	if _, err := url.Parse(cfg.WSURL); err != nil {
		log.Fatal().Err(err).Str("url", cfg.WSURL).Msg("bad websocket url")
	}

	conn, _, err := websocket.DefaultDialer.Dial(cfg.WSURL, nil)
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.WSURL).Msg("dial visualizer")
	}
	defer conn.Close()

	follow := viz.FollowMessage{Type: viz.MsgFollow, GameID: cfg.GameID}
	msg, _ := json.Marshal(follow)
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		log.Fatal().Err(err).Msg("send follow")
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &base); err != nil {
			continue
		}
		switch base.Type {
		case viz.MsgFollowResult:
			var res viz.FollowResult
			if err := json.Unmarshal(data, &res); err != nil {
				continue
			}
			if !res.Ok {
				log.Error().Str("error", res.Error).Str("game_id", res.GameID).Msg("follow refused")
				return
			}
			log.Info().Str("game_id", res.GameID).Str("protocol", res.ProtocolVersion).Msg("following")
		case viz.MsgEvent:
			var ev viz.EventMessage
			if err := json.Unmarshal(data, &ev); err != nil {
				continue
			}
			fmt.Printf("%5d %s %-20s %s\n", ev.Seq, ev.Event.Timestamp.Format(time.TimeOnly), ev.Event.Type, ev.Event.Payload)
			if ev.Event.Type == "game_ended" {
				return
			}
		case viz.MsgStreamEnd:
			var end viz.StreamEnd
			_ = json.Unmarshal(data, &end)
			if end.Error != "" {
				log.Warn().Str("error", end.Error).Msg("stream ended")
			}
			return
		}
	}
}
