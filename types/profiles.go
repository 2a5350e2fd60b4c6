package types

// StateProfile bundles the content parameters for one state label.
// The first category is the default used for fallback scripts and
// search queries.
type StateProfile struct {
	Target     string
	Categories []string
	Tone       string
	Arousal    string
	MinSeconds int
	MaxSeconds int
	Pace       string
	ColorGrade string
	Narration  string
	PreSleepOK bool
}

var stateProfiles = map[StateLabel]StateProfile{
	StateCalm: {
		Target:     "maintain calm, deepen relaxation",
		Categories: []string{"nature", "asmr", "mindfulness", "ambient_music"},
		Tone:       "slow, soothing, meditative",
		Arousal:    "very_low",
		MinSeconds: 30, MaxSeconds: 60,
		Pace:       "slow cuts, lingering shots",
		ColorGrade: "cool, desaturated, soft",
		Narration:  "gentle, unhurried, soft voice",
		PreSleepOK: true,
	},
	StateFocus: {
		Target:     "maintain focus, reduce distractions",
		Categories: []string{"lofi_study", "productivity", "minimalist", "explainer"},
		Tone:       "clean, clear, purposeful",
		Arousal:    "low_medium",
		MinSeconds: 30, MaxSeconds: 55,
		Pace:       "steady rhythm, minimal motion",
		ColorGrade: "neutral, high contrast text, clean",
		Narration:  "clear, measured, informative",
		PreSleepOK: true,
	},
	StateEnergized: {
		Target:     "sustain energy, boost motivation",
		Categories: []string{"motivational", "fitness", "upbeat_music", "highlights"},
		Tone:       "dynamic, punchy, inspiring",
		Arousal:    "high",
		MinSeconds: 15, MaxSeconds: 45,
		Pace:       "fast cuts, high motion",
		ColorGrade: "warm, saturated, vibrant",
		Narration:  "upbeat, confident, energetic",
		PreSleepOK: false,
	},
	StatePreSleep: {
		Target:     "reduce arousal, prepare for sleep",
		Categories: []string{"sleep_story", "breathing_guide", "gentle_nature", "white_noise"},
		Tone:       "whispered, dreamy, ultra-slow",
		Arousal:    "very_low",
		MinSeconds: 45, MaxSeconds: 60,
		Pace:       "very slow dissolves, static shots",
		ColorGrade: "very dark, warm amber, deep blue",
		Narration:  "whispered, minimal, sleep-cue language",
		PreSleepOK: true,
	},
	StateStressed: {
		Target:     "reduce stress, lower arousal",
		Categories: []string{"nature", "humor_light", "breathing_guide", "calming_music"},
		Tone:       "warm, reassuring, grounding",
		Arousal:    "low",
		MinSeconds: 30, MaxSeconds: 60,
		Pace:       "gentle, unhurried",
		ColorGrade: "warm greens and blues, soft",
		Narration:  "empathetic, grounding, calm",
		PreSleepOK: true,
	},
	StateNeutral: {
		Target:     "engage lightly without arousal shift",
		Categories: []string{"news_explainer", "trivia", "lofi_study", "ambient_music"},
		Tone:       "neutral, informative",
		Arousal:    "medium",
		MinSeconds: 20, MaxSeconds: 50,
		Pace:       "moderate",
		ColorGrade: "balanced",
		Narration:  "clear, neutral",
		PreSleepOK: true,
	},
}

// ProfileFor returns the content profile for a state. Total: every
// enumerated label has an entry; anything else maps to neutral (unknown
// labels are rejected by ParseState before they can get here).
func ProfileFor(state StateLabel) StateProfile {
	if p, ok := stateProfiles[state]; ok {
		return p
	}
	return stateProfiles[StateNeutral]
}
