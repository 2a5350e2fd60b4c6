package script

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"pulse-video-pipeline/config"
	"pulse-video-pipeline/types"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-1.5-flash"

const systemPrompt = "You are an expert short-form video scriptwriter. " +
	"Your scripts are calibrated to specific physiological target states. " +
	"You always return valid JSON only — no markdown, no commentary."

// MalformedScriptError reports an LLM response that could not be turned
// into a usable script.
type MalformedScriptError struct {
	Reason string
	Raw    string
}

func (e *MalformedScriptError) Error() string {
	raw := e.Raw
	if len(raw) > 200 {
		raw = raw[:200] + "..."
	}
	return fmt.Sprintf("malformed script: %s (raw: %s)", e.Reason, raw)
}

// Generator produces scene-by-scene scripts calibrated to the caller's
// state label, via the Gemini API.
type Generator struct {
	cfg *config.VideoConfig
}

// New creates a script Generator.
func New(cfg *config.VideoConfig) *Generator {
	return &Generator{cfg: cfg}
}

// scriptJSON is the raw structure the model is asked to return.
type scriptJSON struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Scenes      []sceneJSON `json:"scenes"`
}

type sceneJSON struct {
	SceneID      int    `json:"scene_id"`
	Title        string `json:"title"`
	Narration    string `json:"narration"`
	VisualPrompt string `json:"visual_prompt"`
	DurationS    int    `json:"duration_s"`
	Mood         string `json:"mood"`
	Transition   string `json:"transition"`
}

// Run generates a script for (topic, state). The category is chosen at
// random from the profile's list and the total duration sampled
// uniformly from the profile's range; scene count is max(2, total/15).
func (g *Generator) Run(ctx context.Context, topic string, state types.StateLabel) (*types.VideoScript, error) {
	if g.cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	profile := types.ProfileFor(state)
	category := profile.Categories[rand.Intn(len(profile.Categories))]
	totalS := profile.MinSeconds + rand.Intn(profile.MaxSeconds-profile.MinSeconds+1)
	numScenes := max(2, totalS/15)
	sceneS := totalS / numScenes

	log.Printf("[script] Generating: topic=%q state=%s category=%s duration=%ds (%d scenes × ~%ds)",
		topic, state, category, totalS, numScenes, sceneS)

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(geminiModel)
	model.SetTemperature(0.7)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	prompt := buildPrompt(topic, state, profile, category, numScenes, sceneS)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation: %w", err)
	}

	raw, err := extractText(resp)
	if err != nil {
		return nil, err
	}

	vs, err := g.parse(raw, topic, state, category, totalS)
	if err != nil {
		return nil, err
	}
	log.Printf("[script] ✅ Script ready: %q (%d scenes)", vs.Title, len(vs.Scenes))
	return vs, nil
}

func buildPrompt(topic string, state types.StateLabel, profile types.StateProfile, category string, numScenes, sceneS int) string {
	var sb strings.Builder
	sb.WriteString("Write a short-form video script for the following brief:\n\n")
	sb.WriteString(fmt.Sprintf("TOPIC: %s\n", topic))
	sb.WriteString(fmt.Sprintf("PHYSIOLOGICAL STATE: %s\n", state))
	sb.WriteString(fmt.Sprintf("CONTENT CATEGORY: %s\n", category))
	sb.WriteString(fmt.Sprintf("TARGET: %s\n", profile.Target))
	sb.WriteString(fmt.Sprintf("TONE: %s\n", profile.Tone))
	sb.WriteString(fmt.Sprintf("PACING: %s\n", profile.Pace))
	sb.WriteString(fmt.Sprintf("NARRATION STYLE: %s\n", profile.Narration))
	sb.WriteString(fmt.Sprintf("COLOR / VISUAL GRADE: %s\n", profile.ColorGrade))
	sb.WriteString(fmt.Sprintf("NUMBER OF SCENES: %d\n", numScenes))
	sb.WriteString(fmt.Sprintf("SCENE DURATION: ~%d seconds each\n\n", sceneS))
	sb.WriteString("Return ONLY this JSON structure (no markdown fences):\n")
	sb.WriteString(fmt.Sprintf(`{
  "title": "Short punchy video title",
  "description": "One sentence describing the video",
  "scenes": [
    {
      "scene_id": 1,
      "title": "Scene title (3-5 words)",
      "narration": "Exactly 1-3 sentences of narration matching the tone and pacing above. Should feel natural when spoken aloud for %d seconds.",
      "visual_prompt": "Detailed image search / generation prompt: specific subject, lighting, composition, mood, style — all on one line",
      "duration_s": %d,
      "mood": "one word: serene | focused | energetic | dreamy | grounding | uplifting | neutral",
      "transition": "fade"
    }
  ]
}`, sceneS, sceneS))
	sb.WriteString("\n\nGuidelines:\n")
	sb.WriteString(fmt.Sprintf("- Narration must match the physiological target (%s): %s\n", state, profile.Target))
	sb.WriteString(fmt.Sprintf("- Visual prompts must reflect: %s\n", profile.ColorGrade))
	sb.WriteString("- Each scene should flow naturally into the next\n")
	sb.WriteString("- Keep total experience coherent as a short-form video unit\n")
	return sb.String()
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned empty response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// parse converts the raw model output into a VideoScript, applying
// per-scene defaults for missing optional fields.
func (g *Generator) parse(raw, topic string, state types.StateLabel, category string, totalS int) (*types.VideoScript, error) {
	content := cleanJSON(raw)

	var data scriptJSON
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, &MalformedScriptError{Reason: err.Error(), Raw: content}
	}
	if len(data.Scenes) == 0 {
		return nil, &MalformedScriptError{Reason: `missing "scenes"`, Raw: content}
	}

	scenes := make([]types.Scene, 0, len(data.Scenes))
	for i, s := range data.Scenes {
		scene := types.Scene{
			SceneID:      s.SceneID,
			Title:        s.Title,
			Narration:    s.Narration,
			VisualPrompt: s.VisualPrompt,
			DurationS:    s.DurationS,
			Mood:         s.Mood,
			Transition:   s.Transition,
		}
		if scene.SceneID == 0 {
			scene.SceneID = i + 1
		}
		if scene.DurationS <= 0 {
			scene.DurationS = totalS / len(data.Scenes)
		}
		if scene.Mood == "" {
			scene.Mood = "neutral"
		}
		if scene.Transition == "" {
			scene.Transition = "fade"
		}
		scenes = append(scenes, scene)
	}

	title := data.Title
	if title == "" {
		title = topic
	}

	return &types.VideoScript{
		VideoID:     NewVideoID(),
		Topic:       topic,
		State:       state,
		Category:    category,
		TotalS:      totalS,
		Scenes:      scenes,
		Title:       title,
		Description: data.Description,
	}, nil
}

// Fallback returns a fixed 3-scene, 45-second script built from string
// interpolation only. Deterministic given (topic, state) except for the
// video ID; never fails. Used whenever generation is unavailable.
func (g *Generator) Fallback(topic string, state types.StateLabel) *types.VideoScript {
	profile := types.ProfileFor(state)
	category := profile.Categories[0]
	grade := profile.ColorGrade

	scenes := []types.Scene{
		{
			SceneID: 1, Title: "Opening",
			Narration:    fmt.Sprintf("Welcome to this %s experience about %s.", state, topic),
			VisualPrompt: fmt.Sprintf("%s wide shot, soft lighting, %s", topic, grade),
			DurationS:    15, Mood: "neutral", Transition: "fade",
		},
		{
			SceneID: 2, Title: "Journey",
			Narration:    fmt.Sprintf("Let yourself settle into the moment as we explore %s.", topic),
			VisualPrompt: fmt.Sprintf("%s close detail, ambient mood, %s", topic, grade),
			DurationS:    15, Mood: "serene", Transition: "fade",
		},
		{
			SceneID: 3, Title: "Closing",
			Narration:    "Carry this feeling with you as you return to your day.",
			VisualPrompt: fmt.Sprintf("%s gentle fade, peaceful, %s", topic, grade),
			DurationS:    15, Mood: "serene", Transition: "fade",
		},
	}

	return &types.VideoScript{
		VideoID:     NewVideoID(),
		Topic:       topic,
		State:       state,
		Category:    category,
		TotalS:      45,
		Scenes:      scenes,
		Title:       fmt.Sprintf("%s — %s Experience", topic, state.Title()),
		Description: fmt.Sprintf("A %s short-form video about %s.", state, topic),
	}
}

// NewVideoID returns a fresh 8-character video identifier.
func NewVideoID() string {
	return uuid.NewString()[:8]
}

// cleanJSON strips markdown fences if the model wraps its response in
// ```json ... ```.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
