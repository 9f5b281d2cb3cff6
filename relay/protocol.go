package relay

import (
	"stardrift/sim"
	"stardrift/store"
)

// Client -> Server message types
const (
	MsgJoin           = "join"
	MsgUpdatePosition = "updatePosition"
	MsgCrashed        = "crashed"
	MsgLeave          = "leave"
	MsgRegister       = "register"
	MsgLogin          = "login"
	MsgAuth           = "auth"
	MsgLeaderboard    = "leaderboard"
)

// Server -> Client message types
const (
	MsgWelcome         = "welcome"
	MsgPlayerJoined    = "playerJoined"
	MsgPlayerLeft      = "playerLeft"
	MsgCrash           = "crash"
	MsgError           = "error"
	MsgAuthOK          = "authOK"
	MsgLeaderboardData = "leaderboardData"
)

// Header is decoded first to route incoming messages. All messages are
// flat JSON objects carrying their own "type" field.
type Header struct {
	Type string `json:"type"`
}

// XYZ is a wire-format vector
type XYZ struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec converts to a simulation vector
func (p XYZ) Vec() sim.Vec3 {
	return sim.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// FromVec converts a simulation vector to wire format
func FromVec(v sim.Vec3) XYZ {
	return XYZ{X: v.X, Y: v.Y, Z: v.Z}
}

// JoinMsg announces a pilot entering the world
type JoinMsg struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Token string `json:"token,omitempty"`
}

// UpdatePositionMsg carries one pilot transform sample. Rotation is
// Euler angles in radians, XYZ order.
type UpdatePositionMsg struct {
	Type        string `json:"type"`
	Position    XYZ    `json:"position"`
	Rotation    XYZ    `json:"rotation"`
	TrailActive bool   `json:"trailActive"`
}

// CrashedMsg reports a crash the sending client resolved locally
type CrashedMsg struct {
	Type string `json:"type"`
	What string `json:"what"`
}

// RegisterMsg creates a pilot account
type RegisterMsg struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg authenticates with username/password
type LoginMsg struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg resumes a session with a previously issued token
type AuthMsg struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// LeaderboardMsg requests the flight-time leaderboard
type LeaderboardMsg struct {
	Type  string `json:"type"`
	Limit int    `json:"limit"`
}

// PilotInfo identifies one connected pilot
type PilotInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WelcomeMsg is sent to a pilot after a successful join
type WelcomeMsg struct {
	Type   string      `json:"type"`
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Pilots []PilotInfo `json:"pilots"`
}

// PlayerJoinedMsg is broadcast when a pilot enters the world
type PlayerJoinedMsg struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerLeftMsg is broadcast when a pilot disconnects
type PlayerLeftMsg struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// CrashMsg rebroadcasts a crash to every other pilot
type CrashMsg struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	What string `json:"what"`
}

// ErrorMsg sends an error to a client
type ErrorMsg struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// AuthOKMsg confirms registration, login, or token resume
type AuthOKMsg struct {
	Type     string `json:"type"`
	Token    string `json:"token"`
	Username string `json:"username"`
	PilotID  int64  `json:"pilotId"`
}

// LeaderboardDataMsg is the response to a leaderboard request
type LeaderboardDataMsg struct {
	Type    string                   `json:"type"`
	Entries []store.LeaderboardEntry `json:"entries"`
}

// PilotState is one pilot's transform in the binary roster broadcast
type PilotState struct {
	ID      string  `msgpack:"id"`
	Name    string  `msgpack:"n"`
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	Z       float64 `msgpack:"z"`
	RX      float64 `msgpack:"rx"`
	RY      float64 `msgpack:"ry"`
	RZ      float64 `msgpack:"rz"`
	Trail   bool    `msgpack:"t"`
	Crashed bool    `msgpack:"c"`
}

// Roster is the msgpack-encoded state broadcast sent at a fixed rate
type Roster struct {
	Tick   uint64       `msgpack:"tick"`
	Pilots []PilotState `msgpack:"p"`
}
