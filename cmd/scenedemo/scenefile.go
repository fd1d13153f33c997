package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/retained"
)

// sceneFile is the TOML description of a scene.
type sceneFile struct {
	Width      int        `toml:"width"`
	Height     int        `toml:"height"`
	Background string     `toml:"background"`
	Nodes      []nodeSpec `toml:"nodes"`
}

// nodeSpec describes one node and its children.
type nodeSpec struct {
	Name       string     `toml:"name"`
	X          float64    `toml:"x"`
	Y          float64    `toml:"y"`
	Width      float64    `toml:"width"`
	Height     float64    `toml:"height"`
	Background string     `toml:"background"`
	Radius     float64    `toml:"radius"`
	Alpha      *float64   `toml:"alpha"`
	Rotation   float64    `toml:"rotation"`
	Shadow     float64    `toml:"shadow"`
	ShadowDX   float64    `toml:"shadow_dx"`
	ShadowDY   float64    `toml:"shadow_dy"`
	Clip       bool       `toml:"clip"`
	Isolate    bool       `toml:"isolate"`
	Hidden     bool       `toml:"hidden"`
	Spin       float64    `toml:"spin"`
	Children   []nodeSpec `toml:"children"`
}

// spinner rotates a node by a fixed number of degrees per frame.
type spinner struct {
	node    *retained.Node
	degrees float64
}

func loadSceneFile(path string) (*sceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSceneFile(data)
}

func parseSceneFile(data []byte) (*sceneFile, error) {
	sf := &sceneFile{Width: 640, Height: 480}
	if err := toml.Unmarshal(data, sf); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("scene file %d:%d: %w", row, col, err)
		}
		return nil, fmt.Errorf("scene file: %w", err)
	}
	if sf.Width <= 0 || sf.Height <= 0 {
		return nil, fmt.Errorf("scene file: invalid size %dx%d", sf.Width, sf.Height)
	}
	return sf, nil
}

// apply replaces the children of the scene root with the nodes in sf and
// returns the nodes that animate.
func (sf *sceneFile) apply(root *retained.Node) ([]spinner, error) {
	for _, c := range root.Children() {
		root.RemoveChild(c)
	}
	var spin []spinner
	for i := range sf.Nodes {
		n, err := sf.Nodes[i].build(&spin)
		if err != nil {
			return nil, err
		}
		if err := root.AddChild(n); err != nil {
			return nil, err
		}
	}
	return spin, nil
}

func (ns *nodeSpec) build(spin *[]spinner) (*retained.Node, error) {
	n := retained.NewNode(ns.Name)
	n.SetStyle(retained.StyleX, ns.X)
	n.SetStyle(retained.StyleY, ns.Y)
	if ns.Width > 0 {
		n.SetStyle(retained.StyleWidth, ns.Width)
	}
	if ns.Height > 0 {
		n.SetStyle(retained.StyleHeight, ns.Height)
	}
	if ns.Background != "" {
		c, err := parseHex(ns.Background)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", ns.Name, err)
		}
		n.SetStyle(retained.StyleBackground, c)
		n.SetPainter(retained.FillPainter{})
	}
	if ns.Radius > 0 {
		n.SetStyle(retained.StyleRadius, ns.Radius)
	}
	if ns.Alpha != nil {
		n.SetStyle(retained.StyleAlpha, *ns.Alpha)
	}
	if ns.Rotation != 0 {
		n.SetStyle(retained.StyleRotation, ns.Rotation)
		n.SetStyle(retained.StyleRotationCenterX, ns.Width/2)
		n.SetStyle(retained.StyleRotationCenterY, ns.Height/2)
	}
	if ns.Shadow > 0 {
		n.SetStyle(retained.StyleShadowSize, ns.Shadow)
		n.SetStyle(retained.StyleShadowColor, color.NRGBA{A: 0x80})
		n.SetStyle(retained.StyleShadowOffsetX, ns.ShadowDX)
		n.SetStyle(retained.StyleShadowOffsetY, ns.ShadowDY)
	}
	if ns.Clip {
		n.SetStyle(retained.StyleClipContent, true)
	}
	if ns.Isolate {
		n.SetStyle(retained.StyleIsolate, true)
	}
	if ns.Hidden {
		n.SetStyle(retained.StyleVisible, false)
	}
	if ns.Spin != 0 {
		n.SetStyle(retained.StyleRotationCenterX, ns.Width/2)
		n.SetStyle(retained.StyleRotationCenterY, ns.Height/2)
		*spin = append(*spin, spinner{node: n, degrees: ns.Spin})
	}
	for i := range ns.Children {
		c, err := ns.Children[i].build(spin)
		if err != nil {
			return nil, err
		}
		if err := n.AddChild(c); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// step advances every spinning node by one frame.
func step(spin []spinner) {
	for _, s := range spin {
		deg := s.node.StyleFloat(retained.StyleRotation, 0) + s.degrees
		s.node.SetStyle(retained.StyleRotation, deg)
	}
}

// parseHex parses #rgb, #rrggbb or #rrggbbaa.
func parseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
