package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pulse-video-pipeline/01_script"
	"pulse-video-pipeline/02_assets"
	"pulse-video-pipeline/03_voice"
	"pulse-video-pipeline/04_compose"
	"pulse-video-pipeline/config"
	"pulse-video-pipeline/types"
)

// Stage seams. The pipeline only needs these operations, so tests can
// swap any stage for a stub.
type scripter interface {
	Run(ctx context.Context, topic string, state types.StateLabel) (*types.VideoScript, error)
	Fallback(topic string, state types.StateLabel) *types.VideoScript
}

type assetResolver interface {
	Fetch(ctx context.Context, scene types.Scene, state types.StateLabel, dest string) (assets.MediaAsset, error)
}

type narrator interface {
	Run(ctx context.Context, text string, state types.StateLabel, dest string) string
}

type assembler interface {
	Assemble(ctx context.Context, script *types.VideoScript, media []assets.MediaAsset, audioPaths []string, outputPath string) (string, error)
}

// Pipeline runs the four stages end to end for one topic + state pair.
type Pipeline struct {
	cfg *config.VideoConfig

	Script   scripter
	Assets   assetResolver
	Voice    narrator
	Composer assembler
}

// Result summarizes one finished video.
type Result struct {
	OutputPath string             `json:"output_path"`
	Script     *types.VideoScript `json:"script"`
	DurationS  float64            `json:"duration_s"`
	Scenes     int                `json:"scenes"`
	ElapsedS   float64            `json:"elapsed_s"`
}

// New wires the real stages.
func New(cfg *config.VideoConfig) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		Script:   script.New(cfg),
		Assets:   assets.NewResolver(cfg),
		Voice:    voice.New(cfg),
		Composer: compose.NewAssembler(cfg),
	}
}

// Run produces one video. Script generation failures fall back to the
// built-in script, asset and narration failures degrade per scene, and
// only composition errors abort the job. When cleanup is set the
// video's intermediate files are removed after a successful render.
func (p *Pipeline) Run(ctx context.Context, topic string, state types.StateLabel, cleanup bool) (*Result, error) {
	start := time.Now()
	log.Printf("[pipeline] ▶  %q (state=%s)", topic, state)

	vs, err := p.Script.Run(ctx, topic, state)
	if err != nil {
		log.Printf("[pipeline] ⚠  Script generation failed: %v — using fallback script", err)
		vs = p.Script.Fallback(topic, state)
	}
	if err := p.saveScriptJSON(vs); err != nil {
		log.Printf("[pipeline] ⚠  Could not save script artifact: %v", err)
	}
	log.Printf("[pipeline] 📝 Script ready: %d scenes, %ds total", len(vs.Scenes), vs.TotalS)

	media := make([]assets.MediaAsset, len(vs.Scenes))
	audio := make([]string, len(vs.Scenes))
	for i, scene := range vs.Scenes {
		dest := filepath.Join(p.cfg.TempDir, fmt.Sprintf("%s_s%d.jpg", vs.VideoID, scene.SceneID))
		asset, err := p.Assets.Fetch(ctx, scene, state, dest)
		if err != nil {
			return nil, fmt.Errorf("fetch media for scene %d: %w", scene.SceneID, err)
		}
		media[i] = asset

		audioDest := filepath.Join(p.cfg.TempDir, fmt.Sprintf("%s_s%d.mp3", vs.VideoID, scene.SceneID))
		audio[i] = p.Voice.Run(ctx, scene.Narration, state, audioDest)

		if p.cfg.FetchDelayMS > 0 && i < len(vs.Scenes)-1 {
			time.Sleep(time.Duration(p.cfg.FetchDelayMS) * time.Millisecond)
		}
	}

	outName := fmt.Sprintf("%s_%s.mp4", vs.VideoID, sanitizeTitle(vs.Title))
	outPath := filepath.Join(p.cfg.OutputDir, outName)
	if _, err := p.Composer.Assemble(ctx, vs, media, audio, outPath); err != nil {
		return nil, fmt.Errorf("assemble video: %w", err)
	}

	if cleanup {
		p.Cleanup(vs.VideoID)
	}

	durations := make([]float64, 0, len(vs.Scenes)+2)
	durations = append(durations, 3)
	for _, s := range vs.Scenes {
		durations = append(durations, float64(s.DurationS))
	}
	durations = append(durations, 3)

	res := &Result{
		OutputPath: outPath,
		Script:     vs,
		DurationS:  compose.TotalDuration(durations),
		Scenes:     len(vs.Scenes),
		ElapsedS:   time.Since(start).Seconds(),
	}
	log.Printf("[pipeline] ✅ Finished in %.1fs: %s", res.ElapsedS, outPath)
	return res, nil
}

// saveScriptJSON writes the script next to the video for inspection.
func (p *Pipeline) saveScriptJSON(vs *types.VideoScript) error {
	data, err := json.MarshalIndent(vs, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(p.cfg.OutputDir, fmt.Sprintf("%s_script.json", vs.VideoID))
	return os.WriteFile(path, data, 0644)
}

// Cleanup removes every intermediate file for a video ID. Safe to call
// twice; missing files are not an error.
func (p *Pipeline) Cleanup(videoID string) {
	pattern := filepath.Join(p.cfg.TempDir, videoID+"_*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			log.Printf("[pipeline] ⚠  Could not remove %s: %v", m, err)
		}
	}
	if len(matches) > 0 {
		log.Printf("[pipeline] 🧹 Removed %d temp files for %s", len(matches), videoID)
	}
}

// sanitizeTitle makes a title safe for a filename: spaces become
// underscores, slashes become dashes, length capped at 40.
func sanitizeTitle(title string) string {
	s := strings.ReplaceAll(title, " ", "_")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
