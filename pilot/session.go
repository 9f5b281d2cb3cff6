package pilot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"stardrift/relay"
	"stardrift/sim"
)

const (
	publishEvery = 6               // 60 Hz sim, 10 Hz transform publish
	respawnDelay = 3 * time.Second // pause on the crash screen before restart
	inboundBuf   = 64
)

// Session is one headless pilot: a local simulation connected to the
// relay, flying an autopilot script.
type Session struct {
	serverURL string
	name      string
	token     string

	sim  *sim.Simulation
	auto *Autopilot
	conn *websocket.Conn

	ownID     string
	inbound   chan interface{}
	readDone  chan struct{}
	respawnAt time.Time
}

// NewSession creates a session. The simulation starts at a random spawn
// pad of the given world.
func NewSession(serverURL, name, token string, w *sim.World, tun sim.Tuning, auto *Autopilot) *Session {
	return &Session{
		serverURL: serverURL,
		name:      name,
		token:     token,
		sim:       sim.NewSimulation(w, tun, "", name),
		auto:      auto,
		inbound:   make(chan interface{}, inboundBuf),
		readDone:  make(chan struct{}),
	}
}

// Run connects to the relay and flies until the context is cancelled or
// the connection drops.
func (s *Session) Run(ctx context.Context) error {
	conn, err := NewDialer().Dial(ctx, s.serverURL)
	if err != nil {
		return err
	}
	s.conn = conn
	defer conn.Close()

	if err := s.sendJSON(relay.JoinMsg{Type: relay.MsgJoin, Name: s.name, Token: s.token}); err != nil {
		return fmt.Errorf("join: %w", err)
	}

	go s.readPump()

	ticker := time.NewTicker(sim.NominalTick)
	defer ticker.Stop()

	last := time.Now()
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()

		case <-s.readDone:
			return fmt.Errorf("connection to relay lost")

		case msg := <-s.inbound:
			s.apply(msg)

		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			tick++

			if s.sim.Local.Status == sim.StatusCrashed {
				if !s.respawnAt.IsZero() && now.After(s.respawnAt) {
					s.sim.Restart()
					s.respawnAt = time.Time{}
				}
				s.sim.Tick(sim.Input{}, elapsed)
				continue
			}

			in := s.auto.Next()
			if ev := s.sim.Tick(in, elapsed); ev != nil {
				log.Printf("crashed into %s at %.1f speed", ev.What, ev.ImpactSpeed)
				s.respawnAt = now.Add(respawnDelay)
				if err := s.sendJSON(relay.CrashedMsg{Type: relay.MsgCrashed, What: ev.What}); err != nil {
					return err
				}
				continue
			}

			if tick%publishEvery == 0 {
				if err := s.publish(in.TrailActive); err != nil {
					return err
				}
			}
		}
	}
}

// publish sends the local ship's transform to the relay
func (s *Session) publish(trailActive bool) error {
	t := s.sim.Local.Transform()
	return s.sendJSON(relay.UpdatePositionMsg{
		Type:        relay.MsgUpdatePosition,
		Position:    relay.FromVec(t.Pos),
		Rotation:    relay.FromVec(t.Rot),
		TrailActive: trailActive,
	})
}

func (s *Session) sendJSON(msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// readPump decodes relay messages and hands them to the run loop, which
// owns the simulation. Rosters are dropped rather than queued when the
// loop falls behind.
func (s *Session) readPump() {
	defer close(s.readDone)
	for {
		msgType, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var decoded interface{}
		if msgType == websocket.BinaryMessage {
			var roster relay.Roster
			if err := msgpack.Unmarshal(raw, &roster); err != nil {
				log.Printf("roster decode error: %v", err)
				continue
			}
			decoded = roster
		} else {
			decoded = decodeNotice(raw)
			if decoded == nil {
				continue
			}
		}

		select {
		case s.inbound <- decoded:
		default:
		}
	}
}

// decodeNotice parses the relay's flat JSON notices
func decodeNotice(raw []byte) interface{} {
	var hdr relay.Header
	if err := json.Unmarshal(raw, &hdr); err != nil {
		return nil
	}
	switch hdr.Type {
	case relay.MsgWelcome:
		var m relay.WelcomeMsg
		if json.Unmarshal(raw, &m) == nil {
			return m
		}
	case relay.MsgPlayerJoined:
		var m relay.PlayerJoinedMsg
		if json.Unmarshal(raw, &m) == nil {
			return m
		}
	case relay.MsgPlayerLeft:
		var m relay.PlayerLeftMsg
		if json.Unmarshal(raw, &m) == nil {
			return m
		}
	case relay.MsgCrash:
		var m relay.CrashMsg
		if json.Unmarshal(raw, &m) == nil {
			return m
		}
	case relay.MsgError:
		var m relay.ErrorMsg
		if json.Unmarshal(raw, &m) == nil {
			return m
		}
	}
	return nil
}

// apply feeds one relay message into the local mirrors
func (s *Session) apply(msg interface{}) {
	switch m := msg.(type) {
	case relay.WelcomeMsg:
		s.ownID = m.ID
		for _, p := range m.Pilots {
			s.sim.Remotes.Add(p.ID, p.Name)
		}
		log.Printf("joined as %s (%s), %d other pilots", m.Name, m.ID, len(m.Pilots))

	case relay.PlayerJoinedMsg:
		if m.ID != s.ownID {
			s.sim.Remotes.Add(m.ID, m.Name)
		}

	case relay.PlayerLeftMsg:
		s.sim.Remotes.Remove(m.ID)

	case relay.CrashMsg:
		if m.ID == s.ownID {
			return
		}
		if r := s.sim.Remotes.Get(m.ID); r != nil {
			r.SetCrashed()
		}

	case relay.ErrorMsg:
		log.Printf("relay error: %s", m.Msg)

	case relay.Roster:
		s.applyRoster(m)
	}
}

// applyRoster updates every mirror from a 10 Hz roster snapshot. The
// roster is authoritative for who is present.
func (s *Session) applyRoster(roster relay.Roster) {
	keep := make(map[string]bool, len(roster.Pilots))
	for _, p := range roster.Pilots {
		if p.ID == s.ownID {
			continue
		}
		keep[p.ID] = true
		r := s.sim.Remotes.Add(p.ID, p.Name)
		if p.Crashed {
			r.SetCrashed()
			continue
		}
		r.SetTarget(sim.Transform{
			Pos: sim.Vec3{X: p.X, Y: p.Y, Z: p.Z},
			Rot: sim.Vec3{X: p.RX, Y: p.RY, Z: p.RZ},
		}, p.Trail)
	}
	s.sim.Remotes.Retain(keep)
}

// Sim exposes the local simulation for status reporting and tests
func (s *Session) Sim() *sim.Simulation {
	return s.sim
}
