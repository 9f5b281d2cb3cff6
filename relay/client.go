package relay

import (
	"encoding/json"
	"log"
	"math"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 30
	maxNameLen        = 16
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
	// Pilot state, set on join
	pilotID     string
	pilotName   string
	flightStart time.Time
	// Auth state
	dbPilotID    int64  // 0 = not joined
	authUsername string // "" = guest
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

// handleMessage routes incoming flat JSON messages by their type field
func (c *Client) handleMessage(raw []byte) {
	var hdr Header
	if err := json.Unmarshal(raw, &hdr); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch hdr.Type {
	case MsgJoin:
		c.handleJoin(raw)
	case MsgUpdatePosition:
		c.handleUpdatePosition(raw)
	case MsgCrashed:
		c.handleCrashed(raw)
	case MsgLeave:
		c.handleLeave()
	case MsgRegister:
		c.handleRegister(raw)
	case MsgLogin:
		c.handleLogin(raw)
	case MsgAuth:
		c.handleAuth(raw)
	case MsgLeaderboard:
		c.handleLeaderboard(raw)
	}
}

func (c *Client) handleJoin(raw []byte) {
	if c.pilotID != "" {
		return // already joined
	}
	var msg JoinMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	name := msg.Name
	if msg.Token != "" && c.hub.auth != nil {
		if id, username, err := c.hub.auth.ValidateToken(msg.Token); err == nil {
			c.dbPilotID = id
			c.authUsername = username
			name = username
		}
	}
	if name == "" {
		name = GenerateGuestName()
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen]
	}

	if c.dbPilotID == 0 && c.hub.db != nil {
		id, err := c.hub.db.CreateGuest(name + "_" + GenerateID(3))
		if err != nil {
			log.Printf("create guest error: %v", err)
		} else {
			c.dbPilotID = id
		}
	}

	c.pilotID = GenerateID(8)
	c.pilotName = name
	c.flightStart = time.Now()

	others := c.hub.JoinPilot(c)
	c.SendJSON(WelcomeMsg{Type: MsgWelcome, ID: c.pilotID, Name: name, Pilots: others})
	c.hub.BroadcastJSON(PlayerJoinedMsg{Type: MsgPlayerJoined, ID: c.pilotID, Name: name})
	c.hub.events.Track("join", name, "")
}

func (c *Client) handleUpdatePosition(raw []byte) {
	if c.pilotID == "" {
		return
	}
	var msg UpdatePositionMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	if !finiteXYZ(msg.Position) || !finiteXYZ(msg.Rotation) {
		return
	}
	c.hub.UpdatePilot(c.pilotID, PilotState{
		X: msg.Position.X, Y: msg.Position.Y, Z: msg.Position.Z,
		RX: msg.Rotation.X, RY: msg.Rotation.Y, RZ: msg.Rotation.Z,
		Trail: msg.TrailActive,
	})
	// A transform update from a crashed pilot means they respawned
	if c.flightStart.IsZero() {
		c.flightStart = time.Now()
	}
}

func (c *Client) handleCrashed(raw []byte) {
	if c.pilotID == "" {
		return
	}
	var msg CrashedMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	c.hub.MarkCrashed(c.pilotID)
	c.hub.BroadcastJSON(CrashMsg{Type: MsgCrash, ID: c.pilotID, What: msg.What})
	c.hub.events.Track("crash", c.pilotName, msg.What)
	c.hub.recordFlight(c, true, msg.What)
	c.flightStart = time.Time{}
}

func (c *Client) handleLeave() {
	if c.pilotID == "" {
		return
	}
	c.hub.LeavePilot(c)
	c.pilotID = ""
	c.pilotName = ""
	c.flightStart = time.Time{}
}

func (c *Client) handleRegister(raw []byte) {
	if c.hub.auth == nil {
		return
	}
	var msg RegisterMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Register(msg.Username, msg.Password)
	if err != nil {
		c.SendJSON(ErrorMsg{Type: MsgError, Msg: err.Error()})
		return
	}
	c.dbPilotID = id
	c.authUsername = msg.Username
	c.SendJSON(AuthOKMsg{Type: MsgAuthOK, Token: token, Username: msg.Username, PilotID: id})
}

func (c *Client) handleLogin(raw []byte) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	id, token, err := c.hub.auth.Login(msg.Username, msg.Password, c.remoteAddr)
	if err != nil {
		c.SendJSON(ErrorMsg{Type: MsgError, Msg: err.Error()})
		return
	}
	c.dbPilotID = id
	c.authUsername = msg.Username
	c.SendJSON(AuthOKMsg{Type: MsgAuthOK, Token: token, Username: msg.Username, PilotID: id})
}

func (c *Client) handleAuth(raw []byte) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.SendJSON(ErrorMsg{Type: MsgError, Msg: "invalid token"})
		return
	}
	c.dbPilotID = id
	c.authUsername = username
	c.SendJSON(AuthOKMsg{Type: MsgAuthOK, Token: msg.Token, Username: username, PilotID: id})
}

func (c *Client) handleLeaderboard(raw []byte) {
	if c.hub.db == nil {
		c.SendJSON(ErrorMsg{Type: MsgError, Msg: "leaderboard unavailable"})
		return
	}
	var msg LeaderboardMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}
	limit := msg.Limit
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	entries, err := c.hub.db.Leaderboard(limit)
	if err != nil {
		c.SendJSON(ErrorMsg{Type: MsgError, Msg: "leaderboard unavailable"})
		return
	}
	c.SendJSON(LeaderboardDataMsg{Type: MsgLeaderboardData, Entries: entries})
}

func finiteXYZ(p XYZ) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}
