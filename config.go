// Copyright © 2024 Forge Authors.
// Use is governed by a BSD-style license found in the LICENSE file.

package forge

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// config.go reduces the Server/Client constructor API footprint using
// functional options. Window/graphics/audio/input attributes are
// retained only as opaque fields the core never interprets, since
// rendering, input capture and audio are out-of-scope external
// collaborators.
//
// See: http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis

// Config holds attributes recognized by the core. Fields that exist
// purely for an external collaborator (rendering, input) are carried
// unexamined so application code has one place to configure everything.
type Config struct {
	// Window/graphics hints - client only, opaque to the core.
	Title           string `yaml:"title"`
	Width           int    `yaml:"width,omitempty"`
	Height          int    `yaml:"height,omitempty"`
	BufferSize      int    `yaml:"bufferSize,omitempty"`
	GraphicsBackend string `yaml:"graphicsBackend,omitempty"` // one of "gl", "glawt", "j2d"

	// Tick rates.
	ClientUpdateSpeed float64 `yaml:"clientUpdateSpeed,omitempty"` // Hz
	UpdateSpeed       float64 `yaml:"updateSpeed,omitempty"`       // Hz, server authoritative tick rate.
	RenderSpeed       int     `yaml:"renderSpeed,omitempty"`       // Hz

	// World/replication tuning.
	GameScale          float64 `yaml:"gameScale,omitempty"`          // world-units-per-texture-pixel
	ObjectSendingRange float64 `yaml:"objectSendingRange,omitempty"` // multiplier of camera radius (half its diagonal)
	ObjectUnloadTime   float64 `yaml:"objectUnloadTime,omitempty"`   // seconds, client-side grace before unload

	// Input - client only, opaque to the core. InputConfig is a path;
	// the core never opens or parses it.
	InputConfig          string `yaml:"inputConfig,omitempty"`
	SendMousePressEvents bool   `yaml:"sendMousePressEvents,omitempty"`
	SendMouseWheelEvents bool   `yaml:"sendMouseWheelEvents,omitempty"`
	SendMouseMovedEvents bool   `yaml:"sendMouseMovedEvents,omitempty"`
}

// configDefaults provides reasonable defaults so a Server or Client
// runs even if no configuration attributes are set.
var configDefaults = Config{
	Title:              "Forge",
	Width:              800,
	Height:             450,
	BufferSize:         2,
	GraphicsBackend:    "gl",
	ClientUpdateSpeed:  60,
	UpdateSpeed:        60,
	RenderSpeed:        60,
	GameScale:          1,
	ObjectSendingRange: 4,
	ObjectUnloadTime:   1,
}

// Attr defines an optional Config override, applied in NewServer or
// NewClient, eg:
//
//	srv := forge.NewServer(diag, handler,
//	    forge.UpdateSpeed(60),
//	    forge.ObjectSendingRange(4),
//	    forge.ObjectUnloadTime(1),
//	)
type Attr func(*Config)

// Title sets the window title (client only).
func Title(t string) Attr { return func(c *Config) { c.Title = t } }

// WindowSize sets the window width/height in pixels (client only).
func WindowSize(w, h int) Attr {
	return func(c *Config) {
		if w > 0 {
			c.Width = w
		}
		if h > 0 {
			c.Height = h
		}
	}
}

// BufferSize sets the render back-buffer count (client only).
func BufferSize(n int) Attr { return func(c *Config) { c.BufferSize = n } }

// GraphicsBackend selects the rendering backend (client only).
func GraphicsBackend(name string) Attr {
	return func(c *Config) { c.GraphicsBackend = name }
}

// ClientUpdateSpeed sets the client's local update rate in Hz.
func ClientUpdateSpeed(hz float64) Attr {
	return func(c *Config) {
		if hz > 0 {
			c.ClientUpdateSpeed = hz
		}
	}
}

// UpdateSpeed sets the server's authoritative tick rate in Hz.
func UpdateSpeed(hz float64) Attr {
	return func(c *Config) {
		if hz > 0 {
			c.UpdateSpeed = hz
		}
	}
}

// RenderSpeed sets the client's render rate in Hz.
func RenderSpeed(hz int) Attr {
	return func(c *Config) {
		if hz > 0 {
			c.RenderSpeed = hz
		}
	}
}

// GameScale sets the world-units-per-texture-pixel ratio.
func GameScale(scale float64) Attr {
	return func(c *Config) { c.GameScale = scale }
}

// ObjectSendingRange sets the camera-radius multiplier used to decide
// whether an object is in range of a client's camera.
func ObjectSendingRange(mult float64) Attr {
	return func(c *Config) { c.ObjectSendingRange = mult }
}

// ObjectUnloadTime sets the client-side grace period, in seconds,
// before an out-of-range object is unloaded.
func ObjectUnloadTime(seconds float64) Attr {
	return func(c *Config) { c.ObjectUnloadTime = seconds }
}

// InputConfig sets the path to a key/button-to-control mapping file.
// The core stores this path only; an external input-capture
// collaborator is responsible for reading it.
func InputConfig(path string) Attr { return func(c *Config) { c.InputConfig = path } }

// SendMousePressEvents toggles forwarding of mouse button events.
func SendMousePressEvents(send bool) Attr {
	return func(c *Config) { c.SendMousePressEvents = send }
}

// SendMouseWheelEvents toggles forwarding of mouse wheel events.
func SendMouseWheelEvents(send bool) Attr {
	return func(c *Config) { c.SendMouseWheelEvents = send }
}

// SendMouseMovedEvents toggles forwarding of mouse move events.
func SendMouseMovedEvents(send bool) Attr {
	return func(c *Config) { c.SendMouseMovedEvents = send }
}

// newConfig applies the given attrs over configDefaults.
func newConfig(attrs ...Attr) Config {
	cfg := configDefaults
	for _, attr := range attrs {
		attr(&cfg)
	}
	return cfg
}

// FromYAML unmarshals a config document over configDefaults and
// returns it as a single Attr, so a file-based config composes with
// programmatic ones in the same NewServer/NewClient call:
//
//	attr, err := forge.FromYAML(data)
//	srv := forge.NewServer(diag, handler, attr, forge.UpdateSpeed(30))
//
// Fields absent from data keep the matching configDefaults entry,
// since FromYAML unmarshals onto a copy of the defaults rather than a
// bare zero Config; a field present in data, even with a zero value,
// overrides its default. Because the returned Attr replaces
// the whole Config, pass it before any other Attr in the same call so
// later options can still override individual fields.
func FromYAML(data []byte) (Attr, error) {
	cfg := configDefaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("forge: parsing yaml config: %w", err)
	}
	return func(c *Config) { *c = cfg }, nil
}
