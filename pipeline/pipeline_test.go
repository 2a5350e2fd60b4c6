package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pulse-video-pipeline/01_script"
	"pulse-video-pipeline/02_assets"
	"pulse-video-pipeline/config"
	"pulse-video-pipeline/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.VideoConfig {
	t.Helper()
	cfg := config.Default()
	cfg.Width = 320
	cfg.Height = 180
	cfg.TempDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	cfg.FetchDelayMS = 0
	return cfg
}

// silentNarrator stands in for TTS: every scene ends up silent.
type silentNarrator struct{}

func (silentNarrator) Run(context.Context, string, types.StateLabel, string) string { return "" }

// captureAssembler records what the composer was handed and writes a
// marker file instead of running ffmpeg. failTopic forces an error for
// that topic's script.
type captureAssembler struct {
	failTopic string
	scripts   []*types.VideoScript
	media     [][]assets.MediaAsset
	audio     [][]string
}

func (c *captureAssembler) Assemble(_ context.Context, vs *types.VideoScript, media []assets.MediaAsset, audio []string, outputPath string) (string, error) {
	if c.failTopic != "" && vs.Topic == c.failTopic {
		return "", errors.New("encode blew up")
	}
	c.scripts = append(c.scripts, vs)
	c.media = append(c.media, media)
	c.audio = append(c.audio, audio)
	if err := os.WriteFile(outputPath, []byte("mp4"), 0644); err != nil {
		return "", err
	}
	return outputPath, nil
}

// testPipeline wires real script fallback + gradient-only assets with
// stubbed narration and composition.
func testPipeline(cfg *config.VideoConfig, ca *captureAssembler) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		Script:   script.New(cfg),
		Assets:   assets.NewResolverWith(assets.NewGradientProvider(cfg)),
		Voice:    silentNarrator{},
		Composer: ca,
	}
}

func TestRunOfflineFallbackFlow(t *testing.T) {
	cfg := testConfig(t)
	ca := &captureAssembler{}
	p := testPipeline(cfg, ca)

	res, err := p.Run(context.Background(), "ocean waves", types.StateCalm, false)
	require.NoError(t, err)

	// No API key: the fallback script drives the whole run.
	assert.Equal(t, 3, res.Scenes)
	require.Len(t, res.Script.Scenes, 3)
	assert.Equal(t, "Opening", res.Script.Scenes[0].Title)
	assert.Equal(t, "Journey", res.Script.Scenes[1].Title)
	assert.Equal(t, "Closing", res.Script.Scenes[2].Title)
	assert.Equal(t, "neutral", res.Script.Scenes[0].Mood)
	assert.Equal(t, "serene", res.Script.Scenes[1].Mood)
	assert.Equal(t, "serene", res.Script.Scenes[2].Mood)

	// Two 3s cards + three 15s scenes, four 0.4s overlaps.
	assert.InDelta(t, 49.4, res.DurationS, 1e-9)

	// Every scene got a gradient still on disk.
	require.Len(t, ca.media, 1)
	require.Len(t, ca.media[0], 3)
	for _, m := range ca.media[0] {
		assert.Equal(t, assets.KindImage, m.Kind)
		assert.FileExists(t, m.Path)
	}
	assert.Equal(t, []string{"", "", ""}, ca.audio[0])

	// Output and script artifact land in the output dir.
	assert.FileExists(t, res.OutputPath)
	assert.True(t, strings.HasPrefix(filepath.Base(res.OutputPath), res.Script.VideoID+"_"))

	artifact := filepath.Join(cfg.OutputDir, res.Script.VideoID+"_script.json")
	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	var saved types.VideoScript
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, res.Script.VideoID, saved.VideoID)
	assert.Len(t, saved.Scenes, 3)
}

func TestRunCleanupRemovesTempFiles(t *testing.T) {
	cfg := testConfig(t)
	p := testPipeline(cfg, &captureAssembler{})

	res, err := p.Run(context.Background(), "rain", types.StatePreSleep, true)
	require.NoError(t, err)

	leftovers, err := filepath.Glob(filepath.Join(cfg.TempDir, res.Script.VideoID+"_*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
	assert.FileExists(t, res.OutputPath)
}

func TestCleanupIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	p := testPipeline(cfg, &captureAssembler{})

	for _, name := range []string{"vid00001_s1.jpg", "vid00001_s1.mp3", "vid00001_seg_00.mp4"} {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.TempDir, name), []byte("x"), 0644))
	}
	other := filepath.Join(cfg.TempDir, "zzz99999_s1.jpg")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0644))

	p.Cleanup("vid00001")
	p.Cleanup("vid00001") // second call is a no-op

	leftovers, err := filepath.Glob(filepath.Join(cfg.TempDir, "vid00001_*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
	assert.FileExists(t, other)
}

func TestRunPropagatesComposerError(t *testing.T) {
	cfg := testConfig(t)
	p := testPipeline(cfg, &captureAssembler{failTopic: "doomed"})

	_, err := p.Run(context.Background(), "doomed", types.StateNeutral, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "assemble video")
}

func TestRunBatchContinuesPastFailures(t *testing.T) {
	cfg := testConfig(t)
	p := testPipeline(cfg, &captureAssembler{failTopic: "broken job"})

	jobs := []Job{
		{Topic: "morning light", State: "calm"},
		{Topic: "broken job", State: "focus"},
		{Topic: "city rain", State: "neutral"},
	}
	results := p.RunBatch(context.Background(), jobs, true)
	require.Len(t, results, 3)

	assert.Equal(t, "ok", results[0].Status)
	assert.NotEmpty(t, results[0].OutputPath)
	assert.Empty(t, results[0].Error)

	assert.Equal(t, "error", results[1].Status)
	assert.Contains(t, results[1].Error, "encode blew up")
	assert.Empty(t, results[1].OutputPath)

	assert.Equal(t, "ok", results[2].Status)
}

func TestRunBatchRejectsUnknownState(t *testing.T) {
	cfg := testConfig(t)
	p := testPipeline(cfg, &captureAssembler{})

	results := p.RunBatch(context.Background(), []Job{{Topic: "x", State: "hyped"}}, false)
	require.Len(t, results, 1)
	assert.Equal(t, "error", results[0].Status)
	assert.Contains(t, results[0].Error, "unknown state")
}

func TestSanitizeTitle(t *testing.T) {
	assert.Equal(t, "Ocean_Calm", sanitizeTitle("Ocean Calm"))
	assert.Equal(t, "a-b-c", sanitizeTitle(`a/b\c`))
	assert.Len(t, sanitizeTitle(strings.Repeat("long title ", 10)), 40)
}
