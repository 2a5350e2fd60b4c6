package compose

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"pulse-video-pipeline/02_assets"
	"pulse-video-pipeline/config"
	"pulse-video-pipeline/types"
)

// Assembler turns resolved scene media, narration audio and generated
// cards into one encoded MP4 via ffmpeg.
type Assembler struct {
	cfg *config.VideoConfig
}

// NewAssembler creates an Assembler for one pipeline instance.
func NewAssembler(cfg *config.VideoConfig) *Assembler {
	return &Assembler{cfg: cfg}
}

// Assemble builds: intro card + per-scene composites + outro card,
// joined with 0.4s crossfades, encoded at the configured frame rate.
// audioPaths entries may be "" (scene proceeds silently). An encoding
// failure is fatal for the job and propagates.
func (a *Assembler) Assemble(ctx context.Context, script *types.VideoScript, media []assets.MediaAsset, audioPaths []string, outputPath string) (string, error) {
	if len(media) != len(script.Scenes) || len(audioPaths) != len(script.Scenes) {
		return "", fmt.Errorf("assemble: %d scenes but %d media / %d audio entries",
			len(script.Scenes), len(media), len(audioPaths))
	}

	vis := types.VisualFor(script.State)
	log.Printf("[compose] 🎞  Assembling %q (%d scenes)", script.Title, len(script.Scenes))

	titleImg, err := a.renderTitleCard(script)
	if err != nil {
		return "", fmt.Errorf("render title card: %w", err)
	}
	outroImg, err := a.renderOutroCard(script)
	if err != nil {
		return "", fmt.Errorf("render outro card: %w", err)
	}

	var segPaths []string
	var durations []float64

	titleSeg := a.segPath(script.VideoID, 0)
	if err := a.buildCardSegment(ctx, titleImg, titleSeg); err != nil {
		return "", fmt.Errorf("title card segment: %w", err)
	}
	segPaths = append(segPaths, titleSeg)
	durations = append(durations, cardDurationS)

	for i, scene := range script.Scenes {
		seg := a.segPath(script.VideoID, i+1)
		if err := a.buildSceneSegment(ctx, script.VideoID, scene, media[i], audioPaths[i], vis, seg); err != nil {
			return "", fmt.Errorf("scene %d segment: %w", scene.SceneID, err)
		}
		segPaths = append(segPaths, seg)
		durations = append(durations, float64(scene.DurationS))
	}

	outroSeg := a.segPath(script.VideoID, len(script.Scenes)+1)
	if err := a.buildCardSegment(ctx, outroImg, outroSeg); err != nil {
		return "", fmt.Errorf("outro card segment: %w", err)
	}
	segPaths = append(segPaths, outroSeg)
	durations = append(durations, cardDurationS)

	log.Printf("[compose] Concatenating %d segments (~%.1fs)", len(segPaths), TotalDuration(durations))
	if err := a.concatSegments(ctx, segPaths, durations, outputPath); err != nil {
		return "", fmt.Errorf("concat segments: %w", err)
	}

	log.Printf("[compose] ✅ Done: %s", outputPath)
	return outputPath, nil
}

func (a *Assembler) segPath(videoID string, idx int) string {
	return filepath.Join(a.cfg.TempDir, fmt.Sprintf("%s_seg_%02d.mp4", videoID, idx))
}

// buildCardSegment encodes a still card into a fixed-length segment
// with a silent audio track so concatenation sees uniform streams.
func (a *Assembler) buildCardSegment(ctx context.Context, imgPath, segPath string) error {
	vf := strings.Join([]string{
		fmt.Sprintf("scale=%d:%d", a.cfg.Width, a.cfg.Height),
		fadeFilter(cardDurationS),
		"format=yuv420p",
	}, ",")

	args := []string{"-y",
		"-loop", "1", "-i", imgPath,
		"-f", "lavfi", "-i", "anullsrc=channel_layout=stereo:sample_rate=44100",
		"-vf", vf,
		"-map", "0:v", "-map", "1:a",
		"-t", fmt.Sprintf("%.1f", cardDurationS),
		"-c:v", "libx264", "-preset", "medium", "-crf", "23",
		"-c:a", "aac", "-b:a", "128k",
		"-r", fmt.Sprintf("%d", a.cfg.FPS),
		segPath,
	}
	return a.runFFmpeg(ctx, args)
}

// buildSceneSegment composites one scene: Ken Burns (stills) or
// trimmed/looped speed-adjusted footage (clips), dim overlay, title and
// narration captions, fades, plus narration audio when present. An
// audio-attachment failure degrades to a silent rebuild rather than
// failing the scene.
func (a *Assembler) buildSceneSegment(ctx context.Context, videoID string, scene types.Scene, asset assets.MediaAsset, audioPath string, vis types.VisualPreset, segPath string) error {
	err := a.buildSceneSegmentOnce(ctx, videoID, scene, asset, audioPath, vis, segPath)
	if err != nil && audioPath != "" {
		log.Printf("[compose] ⚠  Audio error scene %d: %v — retrying silent", scene.SceneID, err)
		err = a.buildSceneSegmentOnce(ctx, videoID, scene, asset, "", vis, segPath)
	}
	return err
}

func (a *Assembler) buildSceneSegmentOnce(ctx context.Context, videoID string, scene types.Scene, asset assets.MediaAsset, audioPath string, vis types.VisualPreset, segPath string) error {
	duration := float64(scene.DurationS)

	subFile := filepath.Join(a.cfg.TempDir, fmt.Sprintf("%s_s%d_sub.txt", videoID, scene.SceneID))
	wrapWidth := max(10, (a.cfg.Width-120)/12)
	if err := os.WriteFile(subFile, []byte(wrapText(scene.Narration, wrapWidth)), 0644); err != nil {
		return err
	}

	titleDur := minF(2.5, duration*0.4)
	overlays := []string{
		overlayFilter(vis.OverlayOpacity),
		titleFilter(scene.Title, vis.FontColor, titleDur),
		subtitleFilter(subFile, vis.FontColor, vis.SubtitleBG, a.cfg.Height),
		fadeFilter(duration),
		"format=yuv420p",
	}

	args := []string{"-y"}

	if asset.Kind == assets.KindVideo {
		clipDur, err := probeDuration(asset.Path)
		if err != nil {
			clipDur = duration
		}
		// The speed multiplier changes how much source the segment
		// consumes.
		needed := duration * vis.SpeedFactor
		if clipDur > needed {
			start := rand.Float64() * (clipDur - needed)
			args = append(args, "-ss", fmt.Sprintf("%.2f", start))
		} else if clipDur > 0 && clipDur < needed {
			loops := int(needed/clipDur) + 1
			args = append(args, "-stream_loop", fmt.Sprintf("%d", loops))
		}
		args = append(args, "-i", asset.Path)
		overlays = append([]string{clipFilter(vis.SpeedFactor, a.cfg.Width, a.cfg.Height)}, overlays...)
	} else {
		zoomIn := rand.Intn(2) == 0
		args = append(args, "-loop", "1", "-i", asset.Path)
		overlays = append([]string{kenBurnsFilter(vis.Zoom, zoomIn, scene.DurationS, a.cfg.FPS, a.cfg.Width, a.cfg.Height)}, overlays...)
	}

	if audioPath != "" {
		args = append(args, "-i", audioPath)
	} else {
		args = append(args, "-f", "lavfi", "-i", "anullsrc=channel_layout=stereo:sample_rate=44100")
	}

	args = append(args,
		"-vf", strings.Join(overlays, ","),
		"-map", "0:v", "-map", "1:a",
		"-t", fmt.Sprintf("%.2f", duration), // also truncates audio that outruns the scene
		"-c:v", "libx264", "-preset", "medium", "-crf", "23",
		"-c:a", "aac", "-b:a", "128k", "-ar", "44100",
		"-r", fmt.Sprintf("%d", a.cfg.FPS),
		segPath,
	)
	return a.runFFmpeg(ctx, args)
}

// concatSegments joins segments with chained xfade/acrossfade filters
// and encodes the final deliverable.
func (a *Assembler) concatSegments(ctx context.Context, segPaths []string, durations []float64, outputPath string) error {
	if len(segPaths) == 1 {
		data, err := os.ReadFile(segPaths[0])
		if err != nil {
			return err
		}
		return os.WriteFile(outputPath, data, 0644)
	}

	args := []string{"-y"}
	for _, p := range segPaths {
		args = append(args, "-i", p)
	}

	offsets := xfadeOffsets(durations)
	var fc []string
	vin, ain := "[0:v]", "[0:a]"
	for i := 1; i < len(segPaths); i++ {
		vout := fmt.Sprintf("[v%d]", i)
		aout := fmt.Sprintf("[a%d]", i)
		fc = append(fc, fmt.Sprintf("%s[%d:v]xfade=transition=fade:duration=%.1f:offset=%.2f%s",
			vin, i, crossfadeOverlap, offsets[i-1], vout))
		fc = append(fc, fmt.Sprintf("%s[%d:a]acrossfade=d=%.1f%s",
			ain, i, crossfadeOverlap, aout))
		vin, ain = vout, aout
	}

	args = append(args,
		"-filter_complex", strings.Join(fc, ";"),
		"-map", vin, "-map", ain,
		"-c:v", "libx264", "-preset", "medium", "-b:v", "2000k",
		"-c:a", "aac", "-b:a", "128k",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-r", fmt.Sprintf("%d", a.cfg.FPS),
		outputPath,
	)
	return a.runFFmpeg(ctx, args)
}

func (a *Assembler) runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// probeDuration reads a media file's duration in seconds via ffprobe.
func probeDuration(path string) (float64, error) {
	out, err := exec.Command("ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	).Output()
	if err != nil {
		return 0, err
	}
	var dur float64
	_, err = fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &dur)
	return dur, err
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
