// Package relay is the multiplayer relay: it accepts WebSocket pilots,
// rebroadcasts their transforms at a fixed rate, and never simulates.
// All flight physics runs on the clients.
package relay

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"stardrift/store"
)

const (
	maxConnsPerIP  = 5
	maxTotalConns  = 1000
	rosterInterval = 100 * time.Millisecond // 10 Hz
)

// pilotSlot holds the latest reported state for one joined pilot
type pilotSlot struct {
	state  PilotState
	client *Client
}

// Hub manages all connected clients and owns the roster broadcast
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]bool
	pilots     map[string]*pilotSlot
	register   chan *Client
	unregister chan *Client
	tick       uint64
	// Connection limiting (mutex-protected, accessed from HTTP handlers)
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int
	// Auth & DB
	db     *store.DB
	auth   *Auth
	events *Events
}

// NewHub creates a new Hub. db may be nil for tests without persistence.
func NewHub(db *store.DB) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		pilots:     make(map[string]*pilotSlot),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		ipConns:    make(map[string]int),
		db:         db,
		auth:       NewAuth(db),
		events:     NewEvents(db),
	}
}

func (h *Hub) CanAccept(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= maxTotalConns {
		return false
	}
	if h.ipConns[ip] >= maxConnsPerIP {
		return false
	}
	return true
}

func (h *Hub) TrackConnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]++
	h.totalConns++
}

func (h *Hub) TrackDisconnect(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Run processes register/unregister events and drives the roster ticker
func (h *Hub) Run() {
	ticker := time.NewTicker(rosterInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			if client.pilotID != "" {
				delete(h.pilots, client.pilotID)
			}
			h.mu.Unlock()
			if client.pilotID != "" {
				h.BroadcastJSON(PlayerLeftMsg{Type: MsgPlayerLeft, ID: client.pilotID})
				h.events.Track("leave", client.pilotName, "")
				h.recordFlight(client, false, "")
			}

		case <-ticker.C:
			h.broadcastRoster()
		}
	}
}

// JoinPilot registers a pilot's slot and returns the current pilot list
func (h *Hub) JoinPilot(c *Client) []PilotInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	others := make([]PilotInfo, 0, len(h.pilots))
	for id, slot := range h.pilots {
		others = append(others, PilotInfo{ID: id, Name: slot.state.Name})
	}
	h.pilots[c.pilotID] = &pilotSlot{
		state:  PilotState{ID: c.pilotID, Name: c.pilotName},
		client: c,
	}
	return others
}

// LeavePilot removes a pilot's slot while keeping the connection open,
// so the client can rejoin without reconnecting.
func (h *Hub) LeavePilot(c *Client) {
	h.mu.Lock()
	delete(h.pilots, c.pilotID)
	h.mu.Unlock()
	h.BroadcastJSON(PlayerLeftMsg{Type: MsgPlayerLeft, ID: c.pilotID})
	h.events.Track("leave", c.pilotName, "")
	h.recordFlight(c, false, "")
}

// UpdatePilot stores a pilot's latest reported transform
func (h *Hub) UpdatePilot(id string, st PilotState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if slot, ok := h.pilots[id]; ok {
		st.ID = id
		st.Name = slot.state.Name
		slot.state = st
	}
}

// MarkCrashed flags a pilot as crashed until their next transform update
func (h *Hub) MarkCrashed(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if slot, ok := h.pilots[id]; ok {
		slot.state.Crashed = true
	}
}

// broadcastRoster snapshots all pilot states and sends the msgpack
// binary roster to every joined pilot.
func (h *Hub) broadcastRoster() {
	h.mu.RLock()
	if len(h.pilots) == 0 {
		h.mu.RUnlock()
		return
	}
	h.tick++
	roster := Roster{Tick: h.tick, Pilots: make([]PilotState, 0, len(h.pilots))}
	targets := make([]*Client, 0, len(h.pilots))
	for _, slot := range h.pilots {
		roster.Pilots = append(roster.Pilots, slot.state)
		targets = append(targets, slot.client)
	}
	h.mu.RUnlock()

	data, err := msgpack.Marshal(&roster)
	if err != nil {
		log.Printf("roster marshal error: %v", err)
		return
	}
	for _, c := range targets {
		c.SendBinary(data)
	}
}

// BroadcastJSON sends a JSON message to every connected client
func (h *Hub) BroadcastJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.SendRaw(data)
	}
}

// recordFlight persists one completed flight for an authenticated or
// guest pilot.
func (h *Hub) recordFlight(c *Client, crashed bool, what string) {
	if h.db == nil || c.dbPilotID == 0 || c.flightStart.IsZero() {
		return
	}
	seconds := time.Since(c.flightStart).Seconds()
	if err := h.db.RecordFlight(c.dbPilotID, seconds, crashed, what); err != nil {
		log.Printf("record flight error: %v", err)
	}
}

// PilotCount returns the number of joined pilots
func (h *Hub) PilotCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pilots)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}
