package conv

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()

	// report bullets, "* text" at line start
	bulletRe = regexp.MustCompile(`(?m)^\* `)
	// indented response lines, "  → text"
	arrowRe = regexp.MustCompile(`(?m)^\s+→ `)
)

func init() {
	// https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func MarkdownToTelegramHTML(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)

	return string(tgPolicy.SanitizeBytes(unsafeHTML))
}

// ReportToTelegramHTML renders a text report for Telegram. Telegram has
// no list elements, so bullets become glyph lines before rendering.
func ReportToTelegramHTML(report string) string {
	if strings.TrimSpace(report) == "" {
		return ""
	}
	md := bulletRe.ReplaceAllString(report, "• ")
	md = arrowRe.ReplaceAllString(md, "  → ")
	return strings.TrimSpace(MarkdownToTelegramHTML([]byte(md)))
}
