// Package ws serves reward sessions over websocket. One connection is one
// trainer and owns one engine instance, so the engine's single-threaded
// contract holds per session: the read loop scores each STEP synchronously
// before reading the next message.
package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"crystalrl.ai/internal/protocol"
	"crystalrl.ai/internal/reward"
)

// EngineFactory builds a fresh engine for a new session.
type EngineFactory func() *reward.Engine

type Server struct {
	newEngine EngineFactory
	digest    func() string
	log       *log.Logger

	sessionSeq atomic.Uint64
	upgrader   websocket.Upgrader
}

func NewServer(newEngine EngineFactory, digest func() string, logger *log.Logger) *Server {
	if digest == nil {
		digest = func() string { return "" }
	}
	return &Server{
		newEngine: newEngine,
		digest:    digest,
		log:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID, ok := s.handshake(conn)
		if !ok {
			return
		}

		eng := s.newEngine()
		if eng == nil {
			s.writeError(conn, protocol.ErrInternal, "engine unavailable")
			return
		}
		episode := 0

		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				break
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil {
				s.writeError(conn, protocol.ErrProtoBadRequest, "bad json")
				continue
			}
			if base.ProtocolVersion != protocol.Version {
				s.writeError(conn, protocol.ErrProtoBadRequest, "bad protocol_version")
				continue
			}

			switch base.Type {
			case protocol.TypeStep:
				var step protocol.StepMsg
				if err := json.Unmarshal(msg, &step); err != nil {
					s.writeError(conn, protocol.ErrProtoBadRequest, "bad STEP")
					continue
				}
				level := reward.LevelUnknown
				if step.EpisodeLevel != nil {
					level = *step.EpisodeLevel
				}
				total, b := eng.CalculateReward(&step.Prev, &step.Curr, level, step.Action)
				resp := protocol.RewardMsg{
					Type:            protocol.TypeReward,
					ProtocolVersion: protocol.Version,
					Step:            step.Step,
					Total:           total,
					Breakdown: protocol.BreakdownMsg{
						Exploration: b.Exploration,
						Battle:      b.Battle,
						Progression: b.Progression,
						Penalties:   b.Penalties,
						Lava:        b.Lava,
					},
				}
				if err := writeJSON(conn, resp); err != nil {
					if s.log != nil {
						s.log.Printf("session %s: write reward: %v", sessionID, err)
					}
					return
				}

			case protocol.TypeReset:
				eng.Reset()
				episode++
				resp := protocol.ResetOKMsg{
					Type:            protocol.TypeResetOK,
					ProtocolVersion: protocol.Version,
					Episode:         episode,
				}
				if err := writeJSON(conn, resp); err != nil {
					return
				}

			default:
				s.writeError(conn, protocol.ErrProtoBadRequest, "unexpected type "+base.Type)
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) (sessionID string, ok bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", false
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", false
	}
	if hello.TrainerName == "" {
		hello.TrainerName = "trainer"
	}

	sessionID = fmt.Sprintf("S%d_%s", s.sessionSeq.Add(1), hello.TrainerName)
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		WeightsDigest:   s.digest(),
		Categories:      protocol.Categories(),
	}
	if err := writeJSON(conn, welcome); err != nil {
		return "", false
	}
	if s.log != nil {
		s.log.Printf("session %s: joined", sessionID)
	}
	return sessionID, true
}

func (s *Server) writeError(conn *websocket.Conn, code, message string) {
	_ = writeJSON(conn, protocol.ErrorMsg{
		Type:            protocol.TypeError,
		ProtocolVersion: protocol.Version,
		Code:            code,
		Message:         message,
	})
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
