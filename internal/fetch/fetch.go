// Package fetch resolves links found in inbound messages into plain
// text the pipeline can hand to the model. Fetch failures are always
// soft: the pipeline proceeds on the message text alone.
package fetch

import (
	"context"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/al-mudeer/inbox-agent/internal/config"
)

const maxBodyBytes = 512 * 1024

var urlRe = regexp.MustCompile(`https?://[^\s<>"']+`)

// FirstURL returns the first http(s) URL in text, or "".
func FirstURL(text string) string {
	u := urlRe.FindString(text)
	// Trailing punctuation is usually sentence punctuation, not URL.
	return strings.TrimRight(u, ".,;:!?)")
}

// Fetcher retrieves a page and reduces it to bounded plaintext.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type httpFetcher struct {
	client   *http.Client
	maxChars int
}

// New creates a Fetcher with the configured timeout and content cap.
func New(cfg config.FetchConfig) Fetcher {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = 2000
	}

	return &httpFetcher{
		maxChars: maxChars,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: timeout,
				}).DialContext,
				TLSHandshakeTimeout: timeout,
			},
		},
	}
}

// Fetch downloads the page, strips boilerplate HTML, and truncates the
// text to the configured cap.
func (f *httpFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; MudeerBot/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "fetch: get")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", eris.Errorf("fetch: status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", eris.Wrap(err, "fetch: read body")
	}

	text := stripHTML(string(body))
	if text == "" {
		return "", eris.Errorf("fetch: no readable content at %s", url)
	}

	if len([]rune(text)) > f.maxChars {
		runes := []rune(text)
		text = string(runes[:f.maxChars])
	}

	zap.L().Debug("fetch: resolved link",
		zap.String("url", url),
		zap.Int("chars", len([]rune(text))),
	)
	return text, nil
}

// stripHTML removes scripts/styles/nav/footer, strips tags, decodes
// entities, and collapses whitespace.
func stripHTML(html string) string {
	for _, tag := range []string{"script", "style", "nav", "footer", "header"} {
		re := regexp.MustCompile(`(?is)<` + tag + `[^>]*>.*?</` + tag + `>`)
		html = re.ReplaceAllString(html, "")
	}

	tagRe := regexp.MustCompile(`<[^>]+>`)
	html = tagRe.ReplaceAllString(html, " ")

	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	html = r.Replace(html)

	spaceRe := regexp.MustCompile(`[ \t]+`)
	html = spaceRe.ReplaceAllString(html, " ")

	nlRe := regexp.MustCompile(`\s*\n\s*`)
	html = nlRe.ReplaceAllString(html, "\n")

	return strings.TrimSpace(html)
}
