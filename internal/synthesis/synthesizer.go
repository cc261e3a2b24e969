// Package synthesis turns retrieved article text, or a bare topic, into
// platform-ready social media copy.
package synthesis

import (
	"context"
	"fmt"
	"strings"
)

// Completer is the chat completion surface the synthesizer needs.
type Completer interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int, temperature float64) (string, error)
}

// Synthesizer generates, rewrites and refines post content. Every
// operation returns a usable text even when the model is unavailable:
// the defined fallback value comes back together with the error, so
// callers can log a warning and continue.
type Synthesizer struct {
	llm Completer
}

// New creates a Synthesizer over the given completion client.
func New(llm Completer) *Synthesizer {
	return &Synthesizer{llm: llm}
}

// DefaultHashtags is returned when hashtag suggestion fails.
const DefaultHashtags = "#Trending #News #Updates"

const (
	rewriteSystem  = "You are a helpful assistant that summarizes and rewrites content."
	fallbackSystem = "You are a creative assistant that generates content based on user input."
	hashtagSystem  = "You are an assistant that suggests relevant hashtags for social media posts."
	refineSystem   = "You are a helpful assistant that refines content based on user instructions."
)

// SummarizeAndRewrite condenses retrieved text into a post matching the
// tone and platform. On model failure the original text comes back
// unchanged along with the error.
func (s *Synthesizer) SummarizeAndRewrite(ctx context.Context, text, tone, platform string) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following content and rewrite it to match a %s tone suitable for %s: %s",
		strings.ToLower(tone), platform, text)

	out, err := s.llm.Complete(ctx, rewriteSystem, prompt, 300, 0.7)
	if err != nil {
		return text, fmt.Errorf("summarize and rewrite: %w", err)
	}
	return out, nil
}

// FallbackContent synthesizes a post from the topic alone, used when no
// retrieval context exists. On model failure a deterministic templated
// sentence comes back along with the error.
func (s *Synthesizer) FallbackContent(ctx context.Context, query, tone, platform string) (string, error) {
	prompt := fmt.Sprintf("Generate a %s %s post about %s.",
		strings.ToLower(tone), strings.ToLower(platform), query)

	out, err := s.llm.Complete(ctx, fallbackSystem, prompt, 150, 0.7)
	if err != nil {
		fallback := fmt.Sprintf(
			"Here's some content based on your interest in %s with a %s tone, suitable for %s.",
			query, strings.ToLower(tone), platform)
		return fallback, fmt.Errorf("fallback content: %w", err)
	}
	return out, nil
}

// SuggestHashtags requests five hashtags for the topic. Every returned
// token is guaranteed to start with '#'. On model failure the default
// hashtag set comes back along with the error.
func (s *Synthesizer) SuggestHashtags(ctx context.Context, query, platform string) (string, error) {
	prompt := fmt.Sprintf("Suggest 5 popular hashtags for a %s post about %s.", platform, query)

	out, err := s.llm.Complete(ctx, hashtagSystem, prompt, 50, 0.5)
	if err != nil {
		return DefaultHashtags, fmt.Errorf("suggest hashtags: %w", err)
	}

	tokens := strings.Fields(out)
	for i, tok := range tokens {
		if !strings.HasPrefix(tok, "#") {
			tokens[i] = "#" + tok
		}
	}
	return strings.Join(tokens, " "), nil
}

// Refine applies a free-form instruction to previously generated
// content. On model failure the original content comes back unchanged
// along with the error.
func (s *Synthesizer) Refine(ctx context.Context, instruction, original string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nOriginal Content:\n%s", instruction, original)

	out, err := s.llm.Complete(ctx, refineSystem, prompt, 300, 0.7)
	if err != nil {
		return original, fmt.Errorf("refine: %w", err)
	}
	return out, nil
}
