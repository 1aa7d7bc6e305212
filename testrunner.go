package canopy

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Key    KeyCode `json:"key,omitempty"`
	Shift  bool    `json:"shift,omitempty"`
}

// inputScript is the top-level JSON structure for an input script.
type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

// InputScript replays scripted input against a surface, one frame at a
// time, for automated visual testing. Supported actions are "move",
// "click", "drag", "key", "leave", "wait" and "snapshot".
type InputScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	// OnSnapshot is called for "snapshot" steps with the step's label.
	// Hosts typically write the current frame to a PNG.
	OnSnapshot func(label string)
}

// LoadInputScript parses a JSON input script.
func LoadInputScript(jsonData []byte) (*InputScript, error) {
	var script inputScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "move", "click", "drag", "key", "leave", "wait", "snapshot":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &InputScript{steps: script.Steps}, nil
}

// Done reports whether every step has been executed.
func (r *InputScript) Done() bool {
	return r.done
}

// Step advances the script by one frame. Hosts call it once per frame,
// before ProcessInjectedInput.
func (r *InputScript) Step(s *Surface) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injected) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "snapshot":
		if r.OnSnapshot != nil {
			r.OnSnapshot(st.Label)
		}
	case "move":
		s.InjectMove(st.X, st.Y)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "key":
		var mods KeyModifiers
		if st.Shift {
			mods = ModShift
		}
		s.InjectKey(st.Key, mods)
	case "leave":
		s.InjectLeave()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injected) == 0 {
		r.done = true
	}
}
