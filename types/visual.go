package types

// RGB is a plain 8-bit color triple used by the gradient and card
// renderers.
type RGB struct {
	R, G, B uint8
}

// RGBA adds an alpha channel, used for subtitle background boxes.
type RGBA struct {
	R, G, B, A uint8
}

// VisualPreset holds the per-state composition parameters: Ken Burns
// zoom magnitude, dim-overlay opacity, caption colors and the playback
// speed multiplier applied to motion clips.
type VisualPreset struct {
	Zoom           float64
	OverlayOpacity float64
	FontColor      string // #RRGGBB
	SubtitleBG     RGBA
	Accent         RGB
	SpeedFactor    float64
}

var stateVisuals = map[StateLabel]VisualPreset{
	StateCalm: {
		Zoom: 0.018, OverlayOpacity: 0.30, FontColor: "#E8F4F8",
		SubtitleBG: RGBA{20, 40, 60, 150}, Accent: RGB{100, 200, 230}, SpeedFactor: 0.8,
	},
	StateFocus: {
		Zoom: 0.010, OverlayOpacity: 0.20, FontColor: "#F0F0F0",
		SubtitleBG: RGBA{30, 30, 30, 160}, Accent: RGB{180, 180, 220}, SpeedFactor: 1.0,
	},
	StateEnergized: {
		Zoom: 0.055, OverlayOpacity: 0.18, FontColor: "#FFFFFF",
		SubtitleBG: RGBA{180, 60, 20, 170}, Accent: RGB{255, 140, 40}, SpeedFactor: 1.2,
	},
	StatePreSleep: {
		Zoom: 0.008, OverlayOpacity: 0.50, FontColor: "#C8B8A2",
		SubtitleBG: RGBA{10, 10, 25, 180}, Accent: RGB{180, 140, 80}, SpeedFactor: 0.6,
	},
	StateStressed: {
		Zoom: 0.015, OverlayOpacity: 0.28, FontColor: "#D8EED8",
		SubtitleBG: RGBA{20, 50, 20, 150}, Accent: RGB{100, 200, 120}, SpeedFactor: 1.0,
	},
	StateNeutral: {
		Zoom: 0.020, OverlayOpacity: 0.22, FontColor: "#F5F5F5",
		SubtitleBG: RGBA{40, 40, 40, 150}, Accent: RGB{180, 180, 180}, SpeedFactor: 1.0,
	},
}

// VisualFor returns the composition preset for a state, neutral when
// the label is unknown.
func VisualFor(state StateLabel) VisualPreset {
	if v, ok := stateVisuals[state]; ok {
		return v
	}
	return stateVisuals[StateNeutral]
}

// moodGradients maps a scene mood to its gradient color pair
// (top, bottom). Unrecognized moods use the neutral pair.
var moodGradients = map[string][2]RGB{
	"serene":    {{135, 195, 215}, {60, 110, 160}},
	"focused":   {{220, 220, 220}, {80, 80, 100}},
	"energetic": {{255, 160, 50}, {200, 50, 30}},
	"dreamy":    {{180, 140, 210}, {80, 60, 130}},
	"grounding": {{120, 170, 90}, {50, 90, 50}},
	"uplifting": {{255, 210, 80}, {220, 130, 30}},
	"neutral":   {{160, 160, 160}, {80, 80, 80}},
}

// GradientFor returns the gradient pair for a mood, defaulting to
// neutral for anything outside the fixed vocabulary.
func GradientFor(mood string) (RGB, RGB) {
	pair, ok := moodGradients[mood]
	if !ok {
		pair = moodGradients["neutral"]
	}
	return pair[0], pair[1]
}

// movementWords are appended to video-search queries so clip motion
// matches the target state.
var movementWords = map[StateLabel]string{
	StateCalm:      "slow motion gentle peaceful",
	StateFocus:     "steady minimal clean",
	StateEnergized: "dynamic motion active",
	StatePreSleep:  "very slow dreamy soft",
	StateStressed:  "calming soothing",
	StateNeutral:   "natural",
}

// MovementFor returns the motion keywords for a state.
func MovementFor(state StateLabel) string {
	if w, ok := movementWords[state]; ok {
		return w
	}
	return "natural"
}
