package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"trijoshh/internal/cache"
	"trijoshh/internal/core"
)

// stubGenerator returns a fixed reply or error and counts invocations.
type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestSuggestValidReply(t *testing.T) {
	client := NewClient(&stubGenerator{reply: "Stationary"}, nil)
	cat, ok := client.Suggest(context.Background(), "Office printer paper and ink")
	if !ok || cat != core.CategoryStationary {
		t.Fatalf("got %q ok=%v, want Stationary", cat, ok)
	}
}

func TestSuggestTrimsReply(t *testing.T) {
	client := NewClient(&stubGenerator{reply: "  Food\n"}, nil)
	cat, ok := client.Suggest(context.Background(), "lunch at the cafe")
	if !ok || cat != core.CategoryFood {
		t.Fatalf("got %q ok=%v, want Food", cat, ok)
	}
}

func TestSuggestNonMemberReplyIsAbsent(t *testing.T) {
	client := NewClient(&stubGenerator{reply: "Groceries"}, nil)
	if _, ok := client.Suggest(context.Background(), "weekly groceries run"); ok {
		t.Fatal("non-member reply must be absent")
	}
}

func TestSuggestProviderErrorIsAbsent(t *testing.T) {
	client := NewClient(&stubGenerator{err: errors.New("boom")}, nil)
	if _, ok := client.Suggest(context.Background(), "anything at all"); ok {
		t.Fatal("provider error must map to absent, not propagate")
	}
}

func TestSuggestWithoutGeneratorIsAbsent(t *testing.T) {
	client := NewClient(nil, nil)
	if client.Enabled() {
		t.Fatal("client without generator reported enabled")
	}
	if _, ok := client.Suggest(context.Background(), "office chair"); ok {
		t.Fatal("expected absent without a configured provider")
	}
}

func TestSuggestUsesCache(t *testing.T) {
	gen := &stubGenerator{reply: "Travel"}
	client := NewClient(gen, cache.NewLRU[core.Category](8, time.Minute))

	for i := 0; i < 3; i++ {
		if cat, ok := client.Suggest(context.Background(), "Flight to Berlin"); !ok || cat != core.CategoryTravel {
			t.Fatalf("call %d: got %q ok=%v", i, cat, ok)
		}
	}
	if gen.calls != 1 {
		t.Fatalf("provider called %d times, want 1", gen.calls)
	}
}

func TestPromptEmbedsDescriptionAndCategories(t *testing.T) {
	p := Prompt("printer ink")
	if !strings.Contains(p, `"printer ink"`) {
		t.Fatalf("prompt missing description: %s", p)
	}
	for _, c := range core.Categories() {
		if !strings.Contains(p, string(c)) {
			t.Fatalf("prompt missing category %q", c)
		}
	}
}
