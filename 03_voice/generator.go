package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"time"

	"pulse-video-pipeline/config"
	"pulse-video-pipeline/types"
)

// voiceProfile selects the edge-tts voice and speaking rate for a state.
type voiceProfile struct {
	Voice string
	Rate  string
}

var stateVoices = map[types.StateLabel]voiceProfile{
	types.StateCalm:      {Voice: "en-GB-SoniaNeural", Rate: "-20%"},
	types.StateFocus:     {Voice: "en-US-GuyNeural", Rate: "+0%"},
	types.StateEnergized: {Voice: "en-AU-WilliamNeural", Rate: "+10%"},
	types.StatePreSleep:  {Voice: "en-GB-SoniaNeural", Rate: "-30%"},
	types.StateStressed:  {Voice: "en-GB-RyanNeural", Rate: "-20%"},
	types.StateNeutral:   {Voice: "en-US-GuyNeural", Rate: "+0%"},
}

// Generator synthesizes per-scene narration. Narration is best-effort:
// every failure path returns the empty-string sentinel, never an error,
// and the composer simply omits the audio track.
type Generator struct {
	cfg *config.VideoConfig

	// Command is the TTS binary invoked per scene. Overridable in tests.
	Command string

	httpClient *http.Client
	apiURL     string
}

// New creates a narration Generator using the edge-tts CLI.
func New(cfg *config.VideoConfig) *Generator {
	return &Generator{
		cfg:        cfg,
		Command:    "edge-tts",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiURL:     "https://api.elevenlabs.io",
	}
}

// Run synthesizes text to dest and returns the written path, or "" if
// synthesis failed for any reason (missing binary included). When an
// ElevenLabs key is configured it is tried first, with edge-tts as the
// fallback.
func (g *Generator) Run(ctx context.Context, text string, state types.StateLabel, dest string) string {
	if g.cfg.ElevenLabsAPIKey != "" {
		path, err := g.ElevenLabs(ctx, text, dest, g.cfg.ElevenLabsAPIKey, "")
		if err == nil {
			return path
		}
		log.Printf("[voice] ⚠  ElevenLabs failed: %v — falling back to edge-tts", err)
	}

	vp, ok := stateVoices[state]
	if !ok {
		vp = stateVoices[types.StateNeutral]
	}

	cmd := exec.CommandContext(ctx, g.Command,
		"--voice", vp.Voice,
		"--rate", vp.Rate,
		"--text", text,
		"--write-media", dest,
	)
	if err := cmd.Run(); err != nil {
		log.Printf("[voice] ⚠  TTS failed (%s): %v — scene will be silent", vp.Voice, err)
		return ""
	}

	// A zero-byte file is as useless as no file.
	if fi, err := os.Stat(dest); err != nil || fi.Size() == 0 {
		log.Printf("[voice] ⚠  TTS wrote no audio to %s — scene will be silent", dest)
		return ""
	}
	return dest
}

// ElevenLabs is the optional premium path: a direct HTTP call gated by
// a caller-supplied API key. Not part of the default flow.
func (g *Generator) ElevenLabs(ctx context.Context, text, dest, apiKey, voiceID string) (string, error) {
	if voiceID == "" {
		voiceID = "21m00Tcm4TlvDq8ikWAM"
	}

	payload := map[string]any{
		"text":     text,
		"model_id": "eleven_monolingual_v1",
		"voice_settings": map[string]float64{
			"stability":        0.75,
			"similarity_boost": 0.85,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", g.apiURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("xi-api-key", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("elevenlabs HTTP %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, audio, 0644); err != nil {
		return "", err
	}
	return dest, nil
}
