package pilot

import (
	"math/rand"

	"stardrift/sim"
)

// maneuver is one phase of the flight script
type maneuver struct {
	ticks int
	input sim.Input
}

// Autopilot produces a deterministic looping flight script. The same
// seed always yields the same input sequence, which keeps headless
// flights reproducible.
type Autopilot struct {
	rng    *rand.Rand
	script []maneuver
	phase  int
	left   int
}

// NewAutopilot creates an autopilot from a seed
func NewAutopilot(seed int64) *Autopilot {
	a := &Autopilot{rng: rand.New(rand.NewSource(seed))}
	a.script = a.buildScript()
	a.left = a.script[0].ticks
	return a
}

// buildScript assembles a randomized patrol loop: cruise, turn, climb,
// boost, with the trail lit on some legs.
func (a *Autopilot) buildScript() []maneuver {
	var script []maneuver
	legs := 6 + a.rng.Intn(4)
	for i := 0; i < legs; i++ {
		cruise := sim.Input{ThrustForward: true}
		if a.rng.Intn(3) == 0 {
			cruise.TrailActive = true
		}
		if a.rng.Intn(4) == 0 {
			cruise.Boost = true
		}
		script = append(script, maneuver{ticks: 120 + a.rng.Intn(240), input: cruise})

		turn := sim.Input{ThrustForward: true}
		switch a.rng.Intn(4) {
		case 0:
			turn.YawLeft = true
		case 1:
			turn.YawRight = true
		case 2:
			turn.PitchUp = true
		case 3:
			turn.PitchDown = true
		}
		if a.rng.Intn(2) == 0 {
			turn.RollLeft = true
		}
		script = append(script, maneuver{ticks: 30 + a.rng.Intn(90), input: turn})
	}
	return script
}

// Next returns the input for the coming tick and advances the script
func (a *Autopilot) Next() sim.Input {
	if a.left <= 0 {
		a.phase = (a.phase + 1) % len(a.script)
		a.left = a.script[a.phase].ticks
	}
	a.left--
	return a.script[a.phase].input
}
