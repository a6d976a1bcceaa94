package upstream

import (
	"context"
	"fmt"
	"net/url"
	log "log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	readability "github.com/go-shiori/go-readability"
)

var whitespace = regexp.MustCompile(`\s+`)

// looksLikeChallenge reports whether a login response is a checkpoint/
// challenge HTML page rather than a JSON session payload.
func looksLikeChallenge(body string) bool {
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return false
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "checkpoint") || strings.Contains(lower, "challenge")
}

// challengeText renders the checkpoint page in a headless browser and
// extracts a human-readable summary for logging, so an operator
// staring at logs knows why authenticate() failed instead of seeing a
// wall of markup.
func (c *Client) challengeText(ctx context.Context, challengeURL, rawHTML string) string {
	if c.browserCtx == nil {
		return summarizeHTML(challengeURL, rawHTML)
	}

	tabCtx, cancel := chromedp.NewContext(c.browserCtx)
	defer cancel()
	tabCtx, timeoutCancel := context.WithTimeout(tabCtx, 20*time.Second)
	defer timeoutCancel()

	var rendered string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(challengeURL),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &rendered),
	)
	if err != nil {
		log.WarnContext(ctx, "challenge render failed, falling back to raw html", "err", err)
		return summarizeHTML(challengeURL, rawHTML)
	}
	return summarizeHTML(challengeURL, rendered)
}

func summarizeHTML(pageURL, html string) string {
	parsed, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		text := whitespace.ReplaceAllString(article.TextContent, " ")
		if len(text) > 500 {
			text = text[:500] + "...[truncated]"
		}
		return fmt.Sprintf("%s: %s", article.Title, text)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "unreadable challenge page"
	}
	return strings.TrimSpace(doc.Find("title").Text())
}
