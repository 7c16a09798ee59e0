package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Persisted key names.
const (
	KeyWindowPosition = "windowPosition"
	KeyAlwaysOnTop    = "alwaysOnTop"
	KeyTimerState     = "timerState"
)

// TimerState is the persisted stopwatch snapshot.
type TimerState struct {
	Elapsed int64 `yaml:"time"`
	Running bool  `yaml:"isRunning"`
}

// Normalize clamps values that cannot occur in a valid snapshot.
func (state TimerState) Normalize() TimerState {
	if state.Elapsed < 0 {
		state.Elapsed = 0
	}
	return state
}

// WindowPosition is the top-left corner of the window in screen pixels.
type WindowPosition struct {
	X int
	Y int
}

// MarshalYAML writes the position as a two element flow sequence.
func (position WindowPosition) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, value := range []int{position.X, position.Y} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!int",
			Value: fmt.Sprintf("%d", value),
		})
	}
	return node, nil
}

// UnmarshalYAML reads a [x, y] sequence.
func (position *WindowPosition) UnmarshalYAML(node *yaml.Node) error {
	var values []int
	if err := node.Decode(&values); err != nil {
		return fmt.Errorf("decode window position: %w", err)
	}
	if len(values) != 2 {
		return fmt.Errorf("decode window position: expected 2 values, got %d", len(values))
	}
	position.X = values[0]
	position.Y = values[1]
	return nil
}
