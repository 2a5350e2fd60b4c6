package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"pulse-video-pipeline/config"
	"pulse-video-pipeline/types"
)

// minImageBytes guards against placeholder or error pages disguised as
// 200 responses.
const minImageBytes = 8000

const maxClipSeconds = 30

// ─── Unsplash (image search by URL, no key) ──────────────────────────

type unsplashProvider struct {
	cfg     *config.VideoConfig
	client  *http.Client
	baseURL string
}

func newUnsplashProvider(cfg *config.VideoConfig, client *http.Client) *unsplashProvider {
	return &unsplashProvider{
		cfg:     cfg,
		client:  &http.Client{Timeout: 12 * time.Second, Transport: client.Transport},
		baseURL: "https://source.unsplash.com",
	}
}

func (p *unsplashProvider) Name() string    { return "unsplash" }
func (p *unsplashProvider) Available() bool { return true }

// Fetch tries the two Unsplash source URL variants in order; the first
// response with a success status and a plausible payload size wins.
func (p *unsplashProvider) Fetch(ctx context.Context, scene types.Scene, state types.StateLabel, dest string) (MediaAsset, error) {
	query := url.QueryEscape(imageQuery(scene, state))
	w, h := p.cfg.Width, p.cfg.Height
	candidates := []string{
		fmt.Sprintf("%s/featured/%dx%d/?%s", p.baseURL, w, h, query),
		fmt.Sprintf("%s/%dx%d/?%s", p.baseURL, w, h, query),
	}

	var lastErr error
	for _, u := range candidates {
		if err := downloadTo(ctx, p.client, u, nil, dest, minImageBytes); err != nil {
			lastErr = err
			continue
		}
		return MediaAsset{Path: dest, Kind: KindImage}, nil
	}
	return MediaAsset{}, lastErr
}

// ─── Pexels (video search, key gated) ────────────────────────────────

type pexelsProvider struct {
	cfg     *config.VideoConfig
	client  *http.Client
	apiKey  string
	baseURL string
}

func newPexelsProvider(cfg *config.VideoConfig, client *http.Client) *pexelsProvider {
	return &pexelsProvider{
		cfg:     cfg,
		client:  client,
		apiKey:  cfg.PexelsAPIKey,
		baseURL: "https://api.pexels.com/videos/search",
	}
}

func (p *pexelsProvider) Name() string    { return "pexels" }
func (p *pexelsProvider) Available() bool { return p.apiKey != "" }

type pexelsSearch struct {
	Videos []struct {
		Duration   int `json:"duration"`
		VideoFiles []struct {
			FileType string `json:"file_type"`
			Quality  string `json:"quality"`
			Link     string `json:"link"`
		} `json:"video_files"`
	} `json:"videos"`
}

// Fetch searches Pexels, filters to clips of 30s or less, and downloads
// the first hd/sd MP4 rendition to a .mp4-suffixed path.
func (p *pexelsProvider) Fetch(ctx context.Context, scene types.Scene, state types.StateLabel, dest string) (MediaAsset, error) {
	q := url.Values{}
	q.Set("query", videoQuery(scene, state))
	q.Set("per_page", "5")
	q.Set("size", "medium")
	q.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return MediaAsset{}, err
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return MediaAsset{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return MediaAsset{}, fmt.Errorf("pexels HTTP %d", resp.StatusCode)
	}

	var result pexelsSearch
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return MediaAsset{}, err
	}

	for _, video := range result.Videos {
		if video.Duration > maxClipSeconds {
			continue
		}
		for _, vf := range video.VideoFiles {
			if vf.FileType != "video/mp4" || (vf.Quality != "hd" && vf.Quality != "sd") {
				continue
			}
			clipPath := mp4Path(dest)
			if err := downloadTo(ctx, p.client, vf.Link, nil, clipPath, 1); err != nil {
				return MediaAsset{}, err
			}
			return MediaAsset{Path: clipPath, Kind: KindVideo}, nil
		}
		break
	}
	return MediaAsset{}, fmt.Errorf("pexels: no suitable clip")
}

// ─── Pixabay (video search, key gated) ───────────────────────────────

type pixabayProvider struct {
	cfg     *config.VideoConfig
	client  *http.Client
	apiKey  string
	baseURL string
}

func newPixabayProvider(cfg *config.VideoConfig, client *http.Client) *pixabayProvider {
	return &pixabayProvider{
		cfg:     cfg,
		client:  client,
		apiKey:  cfg.PixabayAPIKey,
		baseURL: "https://pixabay.com/api/videos/",
	}
}

func (p *pixabayProvider) Name() string    { return "pixabay" }
func (p *pixabayProvider) Available() bool { return p.apiKey != "" }

type pixabaySearch struct {
	Hits []struct {
		Videos map[string]struct {
			URL string `json:"url"`
		} `json:"videos"`
	} `json:"hits"`
}

// Fetch takes the first Pixabay hit and downloads the best available
// rendition, preferring medium → small → tiny.
func (p *pixabayProvider) Fetch(ctx context.Context, scene types.Scene, state types.StateLabel, dest string) (MediaAsset, error) {
	q := url.Values{}
	q.Set("key", p.apiKey)
	q.Set("q", videoQuery(scene, state))
	q.Set("video_type", "film")
	q.Set("per_page", "5")
	q.Set("min_duration", "5")
	q.Set("max_duration", fmt.Sprintf("%d", maxClipSeconds))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return MediaAsset{}, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return MediaAsset{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return MediaAsset{}, fmt.Errorf("pixabay HTTP %d", resp.StatusCode)
	}

	var result pixabaySearch
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return MediaAsset{}, err
	}
	if len(result.Hits) == 0 {
		return MediaAsset{}, fmt.Errorf("pixabay: no hits")
	}

	renditions := result.Hits[0].Videos
	for _, quality := range []string{"medium", "small", "tiny"} {
		r, ok := renditions[quality]
		if !ok || r.URL == "" {
			continue
		}
		clipPath := mp4Path(dest)
		if err := downloadTo(ctx, p.client, r.URL, nil, clipPath, 1); err != nil {
			return MediaAsset{}, err
		}
		return MediaAsset{Path: clipPath, Kind: KindVideo}, nil
	}
	return MediaAsset{}, fmt.Errorf("pixabay: no usable rendition")
}

// ─── Shared helpers ──────────────────────────────────────────────────

// downloadTo fetches a URL and writes the body to path, accepting only
// success statuses and payloads of at least minBytes.
func downloadTo(ctx context.Context, client *http.Client, rawURL string, headers map[string]string, path string, minBytes int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PulseVideoPipeline/1.0)")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 50*1024*1024))
	if err != nil {
		return err
	}
	if len(data) < minBytes {
		return fmt.Errorf("response too small (%d bytes)", len(data))
	}
	return os.WriteFile(path, data, 0644)
}

// mp4Path swaps the requested .jpg destination for a .mp4 one when a
// clip wins over a still.
func mp4Path(dest string) string {
	if strings.HasSuffix(dest, ".jpg") {
		return strings.TrimSuffix(dest, ".jpg") + ".mp4"
	}
	return dest + ".mp4"
}
