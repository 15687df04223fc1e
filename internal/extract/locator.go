// Package extract finds the hydration state embedded in a Spotify page and
// navigates it by ordered candidate paths.
package extract

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jaki95/spotify-scraper/internal/domain"
	"github.com/tidwall/gjson"
)

// StateSelectors are tried in order; the first non-empty match wins.
var StateSelectors = []string{
	`script#__NEXT_DATA__`,
	`script#initial-state`,
	`script#resource`,
	`script[type="application/json"]`,
}

// LocateScript returns the raw text of the first script element carrying
// page state.
func LocateScript(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse html: %v", domain.ErrParsing, err)
	}

	for _, selector := range StateSelectors {
		var text string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text = strings.TrimSpace(s.Text())
			return text == ""
		})
		if text != "" {
			slog.Debug("Located state script", "selector", selector, "bytes", len(text))
			return text, nil
		}
	}

	return "", fmt.Errorf("%w: no state script element in document", domain.ErrParsing)
}

// Locate returns the embedded state as JSON. The web player ships it base64
// encoded; embed pages ship it as plain JSON.
func Locate(html string) ([]byte, error) {
	text, err := LocateScript(html)
	if err != nil {
		return nil, err
	}
	return decodeState(text)
}

func decodeState(text string) ([]byte, error) {
	if gjson.Valid(text) {
		return []byte(text), nil
	}

	if decoded, err := base64.StdEncoding.DecodeString(text); err == nil && gjson.ValidBytes(decoded) {
		return decoded, nil
	}

	return nil, fmt.Errorf("%w: state script is not valid json", domain.ErrParsing)
}
