package types

import "fmt"

// StateLabel is one of the fixed physiological state labels that drive
// every content and style decision in the pipeline. In a real deployment
// these would be derived from wearable HR/HRV data; here they are chosen
// by the caller per job.
type StateLabel string

const (
	StateCalm      StateLabel = "calm"      // low HR, high HRV — rest / recovery
	StateFocus     StateLabel = "focus"     // stable HR, moderate HRV — cognitive work
	StateEnergized StateLabel = "energized" // elevated HR, lower HRV — active / motivated
	StatePreSleep  StateLabel = "pre_sleep" // very low HR, high HRV — wind-down
	StateStressed  StateLabel = "stressed"  // elevated HR, low HRV — needs relief
	StateNeutral   StateLabel = "neutral"   // baseline / unknown
)

// AllStates lists every valid label, in a stable order.
var AllStates = []StateLabel{
	StateCalm, StateFocus, StateEnergized, StatePreSleep, StateStressed, StateNeutral,
}

// ParseState validates a raw label at the boundary. Unknown labels are
// rejected here, never deeper in the pipeline.
func ParseState(s string) (StateLabel, error) {
	for _, st := range AllStates {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown state label %q (valid: calm, focus, energized, pre_sleep, stressed, neutral)", s)
}

// Title returns the label in display form ("pre_sleep" → "Pre Sleep").
func (s StateLabel) Title() string {
	out := make([]byte, 0, len(s))
	upper := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			out = append(out, ' ')
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}

// Scene is one scene of a generated script. Created by the script
// generator and immutable afterwards.
type Scene struct {
	SceneID      int    `json:"scene_id"`
	Title        string `json:"title"`
	Narration    string `json:"narration"`
	VisualPrompt string `json:"visual_prompt"`
	DurationS    int    `json:"duration_s"`
	Mood         string `json:"mood"`       // serene | focused | energetic | dreamy | grounding | uplifting | neutral
	Transition   string `json:"transition"` // fade | crossfade | cut
}

// VideoScript is the full structured script for one video.
type VideoScript struct {
	VideoID     string     `json:"video_id"`
	Topic       string     `json:"topic"`
	State       StateLabel `json:"state"`
	Category    string     `json:"category"`
	TotalS      int        `json:"total_s"`
	Scenes      []Scene    `json:"scenes"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}
