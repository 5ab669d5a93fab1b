package locator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/oshokin/fivem-installer/internal/domain/platform"
	"github.com/oshokin/fivem-installer/internal/logger"
	"github.com/oshokin/fivem-installer/internal/version"
)

// noBuild ranks entries without any digit below every numbered build.
const noBuild int64 = -1

var (
	// ErrNotFound is returned when the listing has no entry for the platform.
	ErrNotFound = errors.New("no artifact found on listing page")

	errBadHTTPStatus = errors.New("unexpected http status")
)

// Candidate is a listing entry qualifying as a server build.
type Candidate struct {
	// Name is the href of the entry without surrounding slashes.
	Name string
	// Build is the first digit run of Name, or -1.
	Build int64
	// URL is the listing base URL followed by Name.
	URL string
}

// Locator resolves artifact URLs from listing pages.
type Locator struct {
	client   *http.Client
	listings map[platform.Family]string
}

// Option configures a Locator.
type Option func(*Locator)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Locator) {
		if c != nil {
			l.client = c
		}
	}
}

// WithListingURL overrides the listing page of a family.
func WithListingURL(family platform.Family, baseURL string) Option {
	return func(l *Locator) {
		if baseURL != "" {
			l.listings[family] = baseURL
		}
	}
}

// New creates a Locator pointed at the official listing pages.
func New(opts ...Option) *Locator {
	l := &Locator{
		client: http.DefaultClient,
		listings: map[platform.Family]string{
			platform.FamilyWindows: platform.FamilyWindows.ListingURL(),
			platform.FamilyLinux:   platform.FamilyLinux.ListingURL(),
		},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// ResolveLatest returns the URL of the newest build for tag.
func (l *Locator) ResolveLatest(ctx context.Context, tag platform.Tag) (string, error) {
	candidates, err := l.Candidates(ctx, tag)
	if err != nil {
		return "", err
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%s: %w", l.listings[tag.Family()], ErrNotFound)
	}

	latest := candidates[0]
	logger.InfoKV(ctx, "Resolved latest artifact", "build", latest.Build, "url", latest.URL)

	return latest.URL, nil
}

// Candidates returns every qualifying entry for tag, newest first.
func (l *Locator) Candidates(ctx context.Context, tag platform.Tag) ([]Candidate, error) {
	family := tag.Family()
	baseURL := l.listings[family]

	logger.InfoKV(ctx, "Fetching artifact listing", "url", baseURL)

	body, err := l.fetch(ctx, baseURL)
	if err != nil {
		return nil, err
	}

	hrefs, err := ParseLinks(body)
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", baseURL, err)
	}

	return Rank(baseURL, family.BuildMarker(), hrefs), nil
}

func (l *Locator) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build listing request: %w", err)
	}

	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", rawURL, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing %s, %s: %w", rawURL, resp.Status, errBadHTTPStatus)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read listing %s: %w", rawURL, err)
	}

	return body, nil
}

// ParseLinks returns the href of every anchor in the page, in document order.
func ParseLinks(page []byte) ([]string, error) {
	var (
		hrefs     []string
		tokenizer = html.NewTokenizer(strings.NewReader(string(page)))
	)

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}

			return hrefs, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			if token.DataAtom != atom.A {
				continue
			}

			for _, attr := range token.Attr {
				if attr.Key == "href" {
					hrefs = append(hrefs, attr.Val)
					break
				}
			}
		default:
		}
	}
}

// Rank filters hrefs by marker and orders them by build number, newest first.
// Entries with equal build numbers keep their listing order.
func Rank(baseURL, marker string, hrefs []string) []Candidate {
	candidates := make([]Candidate, 0, len(hrefs))

	for _, href := range hrefs {
		if !strings.Contains(href, marker) {
			continue
		}

		name := strings.Trim(href, "/")
		candidates = append(candidates, Candidate{
			Name:  name,
			Build: BuildNumber(name),
			URL:   baseURL + name,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Build > candidates[j].Build
	})

	return candidates
}

// BuildNumber returns the first run of ASCII digits in name, or -1 when there is none.
// Runs too long for int64 saturate.
func BuildNumber(name string) int64 {
	start := strings.IndexFunc(name, isDigit)
	if start < 0 {
		return noBuild
	}

	end := start
	for end < len(name) && isDigit(rune(name[end])) {
		end++
	}

	n, err := strconv.ParseInt(name[start:end], 10, 64)
	if err != nil {
		return math.MaxInt64
	}

	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
