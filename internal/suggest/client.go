// Package suggest asks a text-generation provider for a category matching a
// free-text expense description. The provider is untrusted free text: only
// replies that exactly match a canonical category label are accepted, and
// every failure degrades to "no suggestion". Callers must always have a
// fallback; the expense workflow never depends on this package succeeding.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"trijoshh/internal/cache"
	"trijoshh/internal/core"
)

// Generator produces raw text for a prompt. The production implementation
// calls the Gemini API; tests substitute a stub.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Client maps descriptions to category suggestions.
type Client struct {
	gen   Generator
	cache *cache.LRU[core.Category]
}

// NewClient builds a suggestion client. gen may be nil when no API
// credential is configured; every call then reports no suggestion without
// attempting I/O. results may be nil to disable memoization.
func NewClient(gen Generator, results *cache.LRU[core.Category]) *Client {
	return &Client{gen: gen, cache: results}
}

// Enabled reports whether a provider is configured.
func (c *Client) Enabled() bool {
	return c.gen != nil
}

// Suggest returns the suggested category for description, or ok=false when
// no suggestion is available. It never returns an error: provider failures
// and non-member replies are logged and reported as absent.
func (c *Client) Suggest(ctx context.Context, description string) (core.Category, bool) {
	if c.gen == nil {
		return "", false
	}

	key := strings.ToLower(strings.TrimSpace(description))
	if c.cache != nil {
		if cat, ok := c.cache.Get(key); ok {
			return cat, true
		}
	}

	reply, err := c.gen.GenerateText(ctx, Prompt(description))
	if err != nil {
		slog.WarnContext(ctx, "Category suggestion failed", "error", err)
		return "", false
	}

	cat, ok := core.ParseCategory(strings.TrimSpace(reply))
	if !ok {
		slog.WarnContext(ctx, "Provider suggested a category outside the enumeration",
			"reply", strings.TrimSpace(reply))
		return "", false
	}

	if c.cache != nil {
		c.cache.Set(key, cat)
	}
	return cat, true
}

// Prompt builds the provider prompt, embedding the description and the
// literal category list.
func Prompt(description string) string {
	labels := make([]string, 0, len(core.Categories()))
	for _, c := range core.Categories() {
		labels = append(labels, string(c))
	}
	return fmt.Sprintf(
		"Based on the expense description %q, what is the most appropriate category? "+
			"Please choose one from the following list: %s. "+
			"Respond with only the category name, exactly as it appears in the list.",
		description, strings.Join(labels, ", "))
}
