package assets

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"pulse-video-pipeline/config"
	"pulse-video-pipeline/types"
)

// MediaKind tags a resolved asset as a still image or a motion clip, so
// the composer branches on the tag rather than on the file extension.
type MediaKind int

const (
	KindImage MediaKind = iota
	KindVideo
)

// MediaAsset is the resolver's result for one scene: a local file that
// is guaranteed to exist on success.
type MediaAsset struct {
	Path string
	Kind MediaKind
}

// Provider is one source of scene media. Availability is determined
// once at construction (credentials, config); Fetch either writes a
// usable asset at dest and returns it, or reports an error that the
// resolver swallows before moving on.
type Provider interface {
	Name() string
	Available() bool
	Fetch(ctx context.Context, scene types.Scene, state types.StateLabel, dest string) (MediaAsset, error)
}

// Resolver tries an ordered provider chain per scene. The last entry is
// the procedural gradient generator, which always succeeds, so Fetch is
// total: exactly one usable file exists after a successful return.
type Resolver struct {
	providers []Provider
}

// NewResolver builds the default chain: Unsplash image search, Pexels
// video search, Pixabay video search, gradient fallback. Providers with
// missing credentials report unavailable and are skipped silently.
func NewResolver(cfg *config.VideoConfig) *Resolver {
	client := &http.Client{Timeout: 30 * time.Second}
	return &Resolver{
		providers: []Provider{
			newUnsplashProvider(cfg, client),
			newPexelsProvider(cfg, client),
			newPixabayProvider(cfg, client),
			NewGradientProvider(cfg),
		},
	}
}

// NewResolverWith builds a resolver over an explicit provider list.
// Used by tests and by callers that want a reduced chain.
func NewResolverWith(providers ...Provider) *Resolver {
	return &Resolver{providers: providers}
}

// Fetch resolves media for one scene. Every provider failure is
// swallowed and treated as "this candidate failed"; only the final
// result is surfaced.
func (r *Resolver) Fetch(ctx context.Context, scene types.Scene, state types.StateLabel, dest string) (MediaAsset, error) {
	for _, p := range r.providers {
		if !p.Available() {
			continue
		}
		asset, err := p.Fetch(ctx, scene, state, dest)
		if err != nil {
			log.Printf("[assets] Scene %d: %s failed: %v", scene.SceneID, p.Name(), err)
			continue
		}
		log.Printf("[assets] Scene %d: ✅ %s → %s", scene.SceneID, p.Name(), asset.Path)
		return asset, nil
	}
	// Unreachable with the default chain; the gradient provider cannot
	// be unavailable and only fails on filesystem errors.
	return MediaAsset{}, fmt.Errorf("no provider produced media for scene %d", scene.SceneID)
}

// imageQuery builds the still-image search query: the visual prompt
// truncated to 60 chars, cut at the first comma, plus the profile's
// primary category.
func imageQuery(scene types.Scene, state types.StateLabel) string {
	prompt := scene.VisualPrompt
	if len(prompt) > 60 {
		prompt = prompt[:60]
	}
	short := strings.TrimSpace(strings.SplitN(prompt, ",", 2)[0])
	category := types.ProfileFor(state).Categories[0]
	return short + " " + category
}

// videoQuery builds the motion-clip search query: the prompt's main
// subject plus state movement keywords plus the primary category.
func videoQuery(scene types.Scene, state types.StateLabel) string {
	subject := strings.TrimSpace(strings.SplitN(scene.VisualPrompt, ",", 2)[0])
	category := types.ProfileFor(state).Categories[0]
	return subject + " " + types.MovementFor(state) + " " + category
}
