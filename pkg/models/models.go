package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Article is a news article normalized from a source adapter.
// Fields missing from a source response are left as zero values.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	ImageURL    string `json:"image_url,omitempty"`
	Source      string `json:"source"`
}

// Citation attributes a source article in generated output.
type Citation struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source,omitempty"`
}

// Format selects the media rendering for a generated post.
type Format string

const (
	FormatText  Format = "text"
	FormatImage Format = "image"
	FormatMeme  Format = "meme"
	FormatVideo Format = "video"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatImage, FormatMeme, FormatVideo:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown format %q (valid: text, image, meme, video)", s)
}

// Tones lists the tones the synthesizer accepts.
var Tones = []string{
	"Formal", "Conversational", "Humorous", "Inspirational",
	"Sarcastic", "Optimistic", "Pessimistic", "Motivational",
	"Friendly", "Professional", "Witty", "Encouraging",
}

// Platforms lists the social platforms a post can target.
var Platforms = []string{
	"LinkedIn", "Instagram", "Reddit", "X (formerly Twitter)",
	"Facebook", "TikTok", "Pinterest", "Snapchat", "YouTube", "Medium",
}

// ValidTone reports whether tone is one of the accepted tones.
func ValidTone(tone string) bool {
	for _, t := range Tones {
		if t == tone {
			return true
		}
	}
	return false
}

// ValidPlatform reports whether platform is one of the accepted platforms.
func ValidPlatform(platform string) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Entry is one generation history item. Refinement produces a new Entry
// that copies Query, Tone, Format, Platform and Citations from the
// refined entry and replaces only Content.
type Entry struct {
	ID        string     `json:"id"`
	Query     string     `json:"query"`
	Tone      string     `json:"tone"`
	Format    Format     `json:"format"`
	Platform  string     `json:"platform"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations"`
	AssetURL  string     `json:"asset_url,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewEntryID returns a unique id for a generation entry.
func NewEntryID() string {
	return uuid.NewString()
}

// Refined returns a copy of e with content replaced and a fresh id.
func (e Entry) Refined(content string, now time.Time) Entry {
	refined := e
	refined.ID = NewEntryID()
	refined.Content = content
	refined.CreatedAt = now
	return refined
}
