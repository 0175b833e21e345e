package render

import (
	"strings"
	"sync"
	"testing"

	"github.com/debemdeboas/postdeck/internal/model"
)

const sample = `[{"id":1,"title":"A post title","body":"Body text"}]`

func TestHighlightJSON(t *testing.T) {
	ClearCache()

	out, err := HighlightJSON(sample, "gruvbox")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "\x1b[") {
		t.Error("Expected ANSI escape sequences in output")
	}
	if !strings.Contains(out, "A post title") {
		t.Error("Expected original text to survive highlighting")
	}

	if _, ok := highlighted.Get(cacheKey(sample, "gruvbox")); !ok {
		t.Error("Expected output to be cached")
	}
}

func TestHighlightJSONUnknownStyle(t *testing.T) {
	out, err := HighlightJSON(sample, "nonexistent-style-12345")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out == "" {
		t.Error("Expected fallback style output")
	}
}

func TestCacheKeyUniqueness(t *testing.T) {
	if cacheKey(sample, "gruvbox") == cacheKey(sample, "monokai") {
		t.Error("Expected different styles to use different keys")
	}
	if cacheKey("ab", "c") == cacheKey("a", "bc") {
		t.Error("Expected keys not to collide across the style boundary")
	}
}

func TestHighlightConcurrency(t *testing.T) {
	ClearCache()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := HighlightJSON(sample, "monokai"); err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
}

func TestFormatJSON(t *testing.T) {
	posts := []model.Post{{ID: "1", Title: "A post title", Body: "Body text"}}

	t.Run("Plain", func(t *testing.T) {
		out, err := FormatJSON(posts, "")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if strings.Contains(out, "\x1b[") {
			t.Error("Expected no escape sequences without a style")
		}
		if !strings.Contains(out, `"id": 1`) {
			t.Errorf("Expected indented numeric id, got %s", out)
		}
	})

	t.Run("Highlighted", func(t *testing.T) {
		out, err := FormatJSON(posts, "gruvbox")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !strings.Contains(out, "\x1b[") {
			t.Error("Expected escape sequences with a style")
		}
	})
}
