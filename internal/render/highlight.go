// Package render formats posts for terminal output.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/postdeck/internal/cache"
	"github.com/debemdeboas/postdeck/internal/util"
)

var highlighted = cache.NewCache[string, string]()

func cacheKey(src, style string) string {
	return util.ContentHashString(style + "\x00" + src)
}

// HighlightJSON colours src for a 256-colour terminal using the named chroma
// style. Unknown styles use the chroma fallback. On error src is returned
// unchanged with the error.
func HighlightJSON(src, style string) (string, error) {
	key := cacheKey(src, style)
	if out, ok := highlighted.Get(key); ok {
		return out, nil
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src, err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, s, iterator); err != nil {
		return src, err
	}

	out := buf.String()
	highlighted.Set(key, out)
	return out, nil
}

// FormatJSON indents v as JSON and highlights it when style is not empty.
func FormatJSON(v any, style string) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding json: %w", err)
	}
	src := string(data) + "\n"
	if style == "" {
		return src, nil
	}
	return HighlightJSON(src, style)
}

// ClearCache drops every cached highlight.
func ClearCache() {
	highlighted.Clear()
}
