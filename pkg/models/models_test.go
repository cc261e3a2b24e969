package models

import (
	"testing"
	"time"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"image", FormatImage, false},
		{"meme", FormatMeme, false},
		{"video", FormatVideo, false},
		{"Text", "", true},
		{"gif", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidToneAndPlatform(t *testing.T) {
	if !ValidTone("Humorous") {
		t.Error("ValidTone(Humorous) should be true")
	}
	if ValidTone("humorous") {
		t.Error("ValidTone is case sensitive, lowercase should be rejected")
	}
	if !ValidPlatform("X (formerly Twitter)") {
		t.Error("ValidPlatform should accept X (formerly Twitter)")
	}
	if ValidPlatform("MySpace") {
		t.Error("ValidPlatform should reject unknown platforms")
	}
}

func TestEntryRefined(t *testing.T) {
	orig := Entry{
		ID:       NewEntryID(),
		Query:    "electric vehicles",
		Tone:     "Witty",
		Format:   FormatText,
		Platform: "LinkedIn",
		Content:  "original content",
		Citations: []Citation{
			{Title: "EV breakthrough", URL: "https://example.com/ev"},
		},
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	refined := orig.Refined("funnier content", now)

	if refined.Content != "funnier content" {
		t.Errorf("Content = %q, want replaced content", refined.Content)
	}
	if refined.ID == orig.ID {
		t.Error("refined entry should get a fresh id")
	}
	if refined.Query != orig.Query || refined.Tone != orig.Tone ||
		refined.Format != orig.Format || refined.Platform != orig.Platform {
		t.Error("refinement must preserve query, tone, format and platform")
	}
	if len(refined.Citations) != 1 || refined.Citations[0].URL != orig.Citations[0].URL {
		t.Error("refinement must carry citations over unchanged")
	}
	if !refined.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", refined.CreatedAt, now)
	}
}
