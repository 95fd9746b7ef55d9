// Package rsi scrapes public RSI citizen pages for the avatar and organisation
// shown alongside reported events.
package rsi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const DefaultBaseURL = "https://robertsspaceindustries.com"

// Profile is the scraped citizen metadata. Any or all fields may be blank - the
// page layout is not under our control and profiles are frequently private.
type Profile struct {
	AvatarURL        string
	OrganizationName string
	OrganizationURL  string
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		HTTP: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// FetchProfile retrieves and parses the citizen page for a player handle.
func (c *Client) FetchProfile(ctx context.Context, handle string) (Profile, error) {
	endpoint := fmt.Sprintf("%s/citizens/%s", strings.TrimSuffix(c.BaseURL, "/"), url.PathEscape(handle))

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Profile{}, err
	}

	response, err := c.HTTP.Do(rq)
	if err != nil {
		return Profile{}, fmt.Errorf("unable to fetch profile for '%s' (%w)", handle, err)
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("unable to fetch profile for '%s' (%s)", handle, response.Status)
	}

	return ParseProfile(response.Body, c.BaseURL)
}

// ParseProfile extracts the avatar (og:image meta tag) and the first
// organisation link from a citizen page.
func ParseProfile(r io.Reader, base string) (Profile, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return Profile{}, fmt.Errorf("unable to parse profile page (%w)", err)
	}

	profile := Profile{}
	meta := map[string]string{}

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if p := attr(n, "property"); p != "" {
					meta[p] = attr(n, "content")
				}

			case "a":
				if href := attr(n, "href"); strings.Contains(href, "/orgs/") && profile.OrganizationURL == "" {
					profile.OrganizationURL = absolute(href, base)
					profile.OrganizationName = orgName(n, profile.OrganizationURL)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}

	visit(doc)

	for _, p := range []string{"og:image", "og:image:url"} {
		if v := meta[p]; v != "" {
			profile.AvatarURL = v
			break
		}
	}

	return profile, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

func absolute(href, base string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}

	return strings.TrimSuffix(base, "/") + href
}

func orgName(n *html.Node, orgURL string) string {
	if text := strings.TrimSpace(textContent(n)); text != "" {
		return text
	}

	trimmed := strings.TrimSuffix(orgURL, "/")
	if ix := strings.LastIndex(trimmed, "/"); ix >= 0 {
		return trimmed[ix+1:]
	}

	return trimmed
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}

	return b.String()
}
