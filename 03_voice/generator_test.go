package voice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"pulse-video-pipeline/config"
	"pulse-video-pipeline/types"

	"github.com/stretchr/testify/assert"
)

func TestRunReturnsSentinelWhenBinaryMissing(t *testing.T) {
	g := New(config.Default())
	g.Command = filepath.Join(t.TempDir(), "no-such-tts-binary")

	dest := filepath.Join(t.TempDir(), "scene.mp3")
	got := g.Run(context.Background(), "hello there", types.StateCalm, dest)
	assert.Equal(t, "", got)
	assert.NoFileExists(t, dest)
}

func TestRunUnknownStateFallsBackToNeutralVoice(t *testing.T) {
	// An unmapped label must not panic; it resolves to the neutral voice
	// before the command even runs.
	g := New(config.Default())
	g.Command = filepath.Join(t.TempDir(), "no-such-tts-binary")

	got := g.Run(context.Background(), "hi", types.StateLabel("bogus"), filepath.Join(t.TempDir(), "x.mp3"))
	assert.Equal(t, "", got)
}

func TestRunPrefersElevenLabsWhenKeySet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "el-key", r.Header.Get("xi-api-key"))
		assert.Contains(t, r.URL.Path, "/v1/text-to-speech/")
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.ElevenLabsAPIKey = "el-key"
	g := New(cfg)
	g.apiURL = srv.URL
	g.Command = filepath.Join(t.TempDir(), "no-such-tts-binary")

	dest := filepath.Join(t.TempDir(), "scene.mp3")
	got := g.Run(context.Background(), "hello", types.StateCalm, dest)
	assert.Equal(t, dest, got)

	data, err := os.ReadFile(dest)
	assert.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))
}

func TestElevenLabsErrorFallsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.ElevenLabsAPIKey = "el-key"
	g := New(cfg)
	g.apiURL = srv.URL
	g.Command = filepath.Join(t.TempDir(), "no-such-tts-binary")

	// Premium path fails, edge-tts binary is missing: sentinel result.
	got := g.Run(context.Background(), "hello", types.StateCalm, filepath.Join(t.TempDir(), "x.mp3"))
	assert.Equal(t, "", got)
}

func TestStateVoicesCoverAllStates(t *testing.T) {
	for _, st := range types.AllStates {
		vp, ok := stateVoices[st]
		assert.True(t, ok, "state %s has no voice", st)
		assert.NotEmpty(t, vp.Voice)
		assert.NotEmpty(t, vp.Rate)
	}
	assert.Equal(t, "-30%", stateVoices[types.StatePreSleep].Rate)
	assert.Equal(t, "+10%", stateVoices[types.StateEnergized].Rate)
}
