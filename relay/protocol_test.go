package relay

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"stardrift/sim"
)

// The transform message is the contract with every client: a flat JSON
// object keyed by "type" with nested position/rotation vectors.
func TestUpdatePositionWireFormat(t *testing.T) {
	msg := UpdatePositionMsg{
		Type:        MsgUpdatePosition,
		Position:    XYZ{X: 1.5, Y: -2.25, Z: 300},
		Rotation:    XYZ{X: 0.1, Y: math.Pi, Z: -0.5},
		TrailActive: true,
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	if m["type"] != "updatePosition" {
		t.Errorf("type = %v, want updatePosition", m["type"])
	}
	pos, ok := m["position"].(map[string]interface{})
	if !ok {
		t.Fatal("position should be a nested object")
	}
	if pos["x"].(float64) != 1.5 || pos["y"].(float64) != -2.25 {
		t.Errorf("position mismatch: %v", pos)
	}
	if m["trailActive"] != true {
		t.Error("trailActive should survive the round trip")
	}
}

// A local ship transform must survive the trip to wire format and back
// without drift.
func TestTransformRoundTrip(t *testing.T) {
	ship := sim.NewShip("p1", "Alice", sim.Transform{Pos: sim.Vec3{X: 10, Y: 20, Z: -30}}, sim.DefaultTuning())
	tf := ship.Transform()

	msg := UpdatePositionMsg{
		Type:     MsgUpdatePosition,
		Position: FromVec(tf.Pos),
		Rotation: FromVec(tf.Rot),
	}
	raw, _ := json.Marshal(msg)
	var back UpdatePositionMsg
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}

	if got := back.Position.Vec(); got.Distance(tf.Pos) > 1e-9 {
		t.Errorf("position drifted: %+v vs %+v", got, tf.Pos)
	}
	if got := back.Rotation.Vec(); got.Distance(tf.Rot) > 1e-9 {
		t.Errorf("rotation drifted: %+v vs %+v", got, tf.Rot)
	}
}

func TestRosterMsgpackRoundTrip(t *testing.T) {
	roster := Roster{
		Tick: 42,
		Pilots: []PilotState{
			{ID: "a1", Name: "Alice", X: 1, Y: 2, Z: 3, RY: 0.5, Trail: true},
			{ID: "b2", Name: "Bob", X: -10, Crashed: true},
		},
	}
	raw, err := msgpack.Marshal(&roster)
	if err != nil {
		t.Fatal(err)
	}
	var back Roster
	if err := msgpack.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.Tick != 42 || len(back.Pilots) != 2 {
		t.Fatalf("roster mismatch: %+v", back)
	}
	if back.Pilots[0].Name != "Alice" || back.Pilots[0].RY != 0.5 || !back.Pilots[0].Trail {
		t.Errorf("pilot 0 mismatch: %+v", back.Pilots[0])
	}
	if !back.Pilots[1].Crashed {
		t.Error("crashed flag should survive")
	}
}
