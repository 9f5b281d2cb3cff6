// Package config loads the TOML configuration for the relay and the
// headless pilot client.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"stardrift/sim"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Pilot   PilotConfig   `toml:"pilot"`
	Physics PhysicsConfig `toml:"physics"`
}

type ServerConfig struct {
	Addr     string `toml:"addr"`
	DBPath   string `toml:"db_path"`
	ShareURL string `toml:"share_url"` // encoded in the /qr join code
}

type PilotConfig struct {
	ServerURL string `toml:"server_url"`
	Name      string `toml:"name"`
	Token     string `toml:"token"`
	Seed      int64  `toml:"seed"` // autopilot script seed, 0 = random
}

// PhysicsConfig overrides flight tuning. Zero values fall back to the
// built-in defaults.
type PhysicsConfig struct {
	ForwardAccel    float64 `toml:"forward_accel"`
	StrafeAccel     float64 `toml:"strafe_accel"`
	BoostMultiplier float64 `toml:"boost_multiplier"`
	DragFactor      float64 `toml:"drag_factor"`
	MaxSpeed        float64 `toml:"max_speed"`
	TurnRate        float64 `toml:"turn_rate"`
	GravityStrength float64 `toml:"gravity_strength"`
	GravityCutoff   float64 `toml:"gravity_cutoff"`
	ShipRadius      float64 `toml:"ship_radius"`
	Restitution     float64 `toml:"restitution"`
}

// Load reads the config file at path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:   ":8080",
			DBPath: "stardrift.db",
		},
		Pilot: PilotConfig{
			ServerURL: "ws://localhost:8080/ws",
			Name:      "",
		},
	}
}

// Tuning builds the simulation tuning from the physics overrides
func (c *Config) Tuning() sim.Tuning {
	tun := sim.DefaultTuning()
	p := c.Physics
	if p.ForwardAccel > 0 {
		tun.ForwardAccel = p.ForwardAccel
	}
	if p.StrafeAccel > 0 {
		tun.StrafeAccel = p.StrafeAccel
	}
	if p.BoostMultiplier > 0 {
		tun.BoostMultiplier = p.BoostMultiplier
	}
	if p.DragFactor > 0 {
		tun.Drag = p.DragFactor
	}
	if p.MaxSpeed > 0 {
		tun.MaxSpeed = p.MaxSpeed
	}
	if p.TurnRate > 0 {
		tun.TurnRate = p.TurnRate
	}
	if p.GravityStrength > 0 {
		tun.GravityStrength = p.GravityStrength
	}
	if p.GravityCutoff > 0 {
		tun.GravityCutoff = p.GravityCutoff
	}
	if p.ShipRadius > 0 {
		tun.ShipRadius = p.ShipRadius
	}
	if p.Restitution > 0 {
		tun.Restitution = p.Restitution
	}
	return tun
}
