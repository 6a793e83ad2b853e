package conv

import (
	"strings"

	"github.com/inbucket/html2text"
)

// HTMLToText flattens markup captured from a web chat surface to plain
// text. Callers decide what is markup; text is never sniffed.
func HTMLToText(s string) (string, error) {
	text, err := html2text.FromString(s, html2text.Options{
		OmitLinks: true,
		TextOnly:  true,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
