package viz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"damage-game/internal/eventlog"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const wsWriteWait = 10 * time.Second

type wsClient struct {
	conn      *websocket.Conn
	send      chan []byte
	ctx       context.Context
	cancel    context.CancelFunc
	following string
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	c := &wsClient{conn: conn, send: make(chan []byte, 64), ctx: ctx, cancel: cancel}

	metricWSConnectionsTotal.Add(1)
	metricWSConnectionsActive.Add(1)
	defer metricWSConnectionsActive.Add(-1)

	if id := r.URL.Query().Get("game_id"); id != "" {
		s.startFollow(c, id)
	}
	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) readLoop(c *wsClient) {
	defer func() {
		c.cancel()
		_ = c.conn.Close()
	}()
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			continue
		}
		switch base.Type {
		case MsgFollow:
			var follow FollowMessage
			if err := json.Unmarshal(msg, &follow); err != nil {
				continue
			}
			s.startFollow(c, follow.GameID)
		}
	}
}

func (s *Server) writeLoop(c *wsClient) {
	ticker := s.clock.NewTicker(s.pingInterval())
	defer ticker.Stop()
	for {
		select {
		case <-c.ctx.Done():
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.cancel()
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				c.cancel()
				return
			}
		}
	}
}

func (s *Server) startFollow(c *wsClient, id string) {
	switch {
	case c.following != "":
		s.queue(c, FollowResult{Type: MsgFollowResult, ProtocolVersion: ProtocolVersion, Error: "already_following", GameID: c.following})
		return
	case id == "":
		s.queue(c, FollowResult{Type: MsgFollowResult, ProtocolVersion: ProtocolVersion, Error: "missing_game_id"})
		return
	case !s.logExists(id):
		s.queue(c, FollowResult{Type: MsgFollowResult, ProtocolVersion: ProtocolVersion, Error: "game_not_found", GameID: id})
		return
	}
	c.following = id
	s.queue(c, FollowResult{Type: MsgFollowResult, ProtocolVersion: ProtocolVersion, Ok: true, GameID: id})

	events, done := s.follow(c.ctx, id)
	go func() {
		seq := 0
		send := func(ev eventlog.Event) error {
			seq++
			s.queue(c, EventMessage{Type: MsgEvent, ProtocolVersion: ProtocolVersion, Seq: seq, Event: ev})
			metricWSEventsSent.Add(1)
			return nil
		}
		for {
			select {
			case <-c.ctx.Done():
				return
			case err := <-done:
				_ = drain(events, send)
				end := StreamEnd{Type: MsgStreamEnd, ProtocolVersion: ProtocolVersion, GameID: id}
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Warn().Err(err).Str("game_id", id).Msg("ws tail stopped")
					end.Error = err.Error()
				}
				s.queue(c, end)
				return
			case ev := <-events:
				_ = send(ev)
			}
		}
	}()
}

func (s *Server) queue(c *wsClient, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	case <-c.ctx.Done():
	}
}
