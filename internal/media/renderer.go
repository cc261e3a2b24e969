// Package media maps finalized post text to image, meme and video
// assets through third-party generation APIs. Every call is
// best-effort: a missing credential or failed request yields a typed
// placeholder URL, never an error past this boundary.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Placeholder asset URLs, one per media type.
const (
	ImagePlaceholder = "https://via.placeholder.com/512x512?text=Image+Unavailable"
	MemePlaceholder  = "https://via.placeholder.com/512x512?text=Meme+Unavailable"
	VideoPlaceholder = "https://via.placeholder.com/512x512?text=Video+Unavailable"
)

// MemeTemplates is the fixed set of supported meme templates, keyed by
// display name to the imgflip template id.
var MemeTemplates = map[string]string{
	"Distracted Boyfriend": "112126428",
	"Drake Hotline Bling":  "181913649",
	"Two Buttons":          "87743020",
	"Mocking Spongebob":    "102156234",
	"Change My Mind":       "129242436",
}

// MemeTemplateNames returns the template display names, sorted.
func MemeTemplateNames() []string {
	names := make([]string, 0, len(MemeTemplates))
	for name := range MemeTemplates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config holds renderer credentials and endpoints.
type Config struct {
	ImageAPIKey     string
	ImageBaseURL    string // defaults to the OpenAI API
	ImgflipUsername string
	ImgflipPassword string
	ImgflipURL      string // defaults to the imgflip caption endpoint
	VideoAPIKey     string
	VideoURL        string // defaults to the synthesia videos endpoint
}

// Renderer performs the external generation calls.
type Renderer struct {
	cfg        Config
	httpClient *http.Client
}

// New creates a Renderer. Missing endpoints fall back to the real
// service URLs.
func New(cfg Config) *Renderer {
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = "https://api.openai.com/v1"
	}
	if cfg.ImgflipURL == "" {
		cfg.ImgflipURL = "https://api.imgflip.com/caption_image"
	}
	if cfg.VideoURL == "" {
		cfg.VideoURL = "https://api.synthesia.io/v1/videos"
	}
	return &Renderer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Image generates one 512x512 image for the prompt and returns its URL.
func (r *Renderer) Image(ctx context.Context, prompt string) string {
	if r.cfg.ImageAPIKey == "" {
		return ImagePlaceholder
	}

	payload, _ := json.Marshal(map[string]any{
		"prompt": prompt,
		"n":      1,
		"size":   "512x512",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.cfg.ImageBaseURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return ImagePlaceholder
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.ImageAPIKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		slog.Warn("image generation failed", "error", err)
		return ImagePlaceholder
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Warn("image generation failed", "status", resp.StatusCode, "body", string(body))
		return ImagePlaceholder
	}

	var ir imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil || len(ir.Data) == 0 {
		slog.Warn("image generation returned no data", "error", err)
		return ImagePlaceholder
	}
	return ir.Data[0].URL
}

type memeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	ErrorMessage string `json:"error_message"`
}

// Meme captions the given template and returns the rendered meme URL.
func (r *Renderer) Meme(ctx context.Context, templateID, caption string) string {
	if r.cfg.ImgflipUsername == "" || r.cfg.ImgflipPassword == "" {
		return MemePlaceholder
	}

	params := url.Values{}
	params.Set("template_id", templateID)
	params.Set("username", r.cfg.ImgflipUsername)
	params.Set("password", r.cfg.ImgflipPassword)
	params.Set("text0", caption)
	params.Set("text1", "")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.cfg.ImgflipURL+"?"+params.Encode(), nil)
	if err != nil {
		return MemePlaceholder
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		slog.Warn("meme generation failed", "error", err)
		return MemePlaceholder
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Warn("meme generation failed", "status", resp.StatusCode, "body", string(body))
		return MemePlaceholder
	}

	var mr memeResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		slog.Warn("meme generation returned bad payload", "error", err)
		return MemePlaceholder
	}
	if !mr.Success {
		slog.Warn("meme generation rejected", "error", mr.ErrorMessage)
		return MemePlaceholder
	}
	return mr.Data.URL
}

type videoResponse struct {
	VideoURL string `json:"video_url"`
}

// Video submits the script to a text-to-video API and returns the
// resulting asset URL.
func (r *Renderer) Video(ctx context.Context, script string) string {
	if r.cfg.VideoAPIKey == "" {
		return VideoPlaceholder
	}

	payload, _ := json.Marshal(map[string]any{
		"script":     script,
		"voice":      "en-US",
		"resolution": "1080p",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.VideoURL, bytes.NewReader(payload))
	if err != nil {
		return VideoPlaceholder
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.cfg.VideoAPIKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		slog.Warn("video generation failed", "error", err)
		return VideoPlaceholder
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Warn("video generation failed", "status", resp.StatusCode, "body", string(body))
		return VideoPlaceholder
	}

	var vr videoResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil || vr.VideoURL == "" {
		slog.Warn("video generation returned no url", "error", err)
		return VideoPlaceholder
	}
	return vr.VideoURL
}

// RenderPrompt builds the image prompt for a finalized post.
func RenderPrompt(tone, text string) string {
	return fmt.Sprintf("Create a %s image based on: %s", strings.ToLower(tone), text)
}

// MemeCaption builds the caption for a meme about the query.
func MemeCaption(tone, query string) string {
	return fmt.Sprintf("%s meme about %s", tone, query)
}
