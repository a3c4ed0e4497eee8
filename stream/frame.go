// Package stream publishes field frames to websocket clients.
package stream

import (
	"encoding/json"

	"github.com/pthm-cable/glimmer/field"
)

// Frame is the JSON message sent to clients for one frame.
type Frame struct {
	Frame     uint64     `json:"frame"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Particles []Particle `json:"particles"`
	Links     []Link     `json:"links"`
}

// Particle is a particle's drawable state.
type Particle struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"r"`
	Opacity float64 `json:"opacity"`
}

// Link joins particles A and B by index.
type Link struct {
	A     int     `json:"a"`
	B     int     `json:"b"`
	Alpha float64 `json:"alpha"`
}

// NewFrame builds a frame message from the field's current state.
func NewFrame(frame uint64, f *field.Field) Frame {
	b := f.Bounds()
	ps := f.Particles()
	msg := Frame{
		Frame:     frame,
		Width:     b.Width,
		Height:    b.Height,
		Particles: make([]Particle, len(ps)),
		Links:     []Link{},
	}
	for i, p := range ps {
		msg.Particles[i] = Particle{X: p.X, Y: p.Y, Radius: p.Radius, Opacity: p.Opacity}
	}
	for _, l := range f.AppendLinks(nil) {
		msg.Links = append(msg.Links, Link{A: l.A, B: l.B, Alpha: l.Alpha})
	}
	return msg
}

// Encode marshals the frame.
func (fr Frame) Encode() ([]byte, error) {
	return json.Marshal(fr)
}
