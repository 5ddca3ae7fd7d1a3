// Package catalog wraps the external song-catalog service. It is an opaque
// boundary: the core only needs token acquisition and track search, and any
// upstream failure degrades to an empty result set for that one request.
package catalog

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kaushang/Groovia/pkg/redis"
)

const (
	tokenURL  = "https://accounts.spotify.com/api/token"
	searchURL = "https://api.spotify.com/v1/search"
)

type Client struct {
	clientID     string
	clientSecret string
	cache        *redis.Cache
	httpClient   *http.Client
}

// Track is the normalized search result handed to clients.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	Image      string   `json:"image"`
	PreviewURL string   `json:"preview_url"`
	Duration   int      `json:"duration"` // milliseconds
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type searchResponse struct {
	Tracks struct {
		Items []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Name   string `json:"name"`
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
			PreviewURL string `json:"preview_url"`
			Duration   int    `json:"duration_ms"`
		} `json:"items"`
	} `json:"tracks"`
}

func NewClient(clientID, clientSecret string, cache *redis.Cache) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		cache:        cache,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// getToken returns a valid app token, from cache when possible.
func (c *Client) getToken(ctx context.Context) (string, error) {
	cached, err := c.cache.GetAppToken(ctx)
	if err == nil && time.Now().Before(cached.ExpiresAt) {
		return cached.AccessToken, nil
	}
	if err != nil && !errors.Is(err, redis.ErrCacheMiss) {
		return "", err
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Add("Authorization", "Basic "+auth)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("catalog: token request failed with status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", err
	}

	appToken := &redis.AppToken{
		AccessToken: token.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(token.ExpiresIn) * time.Second),
	}
	if err := c.cache.StoreAppToken(ctx, appToken); err != nil {
		// caching is best-effort; the token itself is still good
		return token.AccessToken, nil
	}
	return token.AccessToken, nil
}

// SearchTracks queries the catalog for tracks matching query.
func (c *Client) SearchTracks(ctx context.Context, query string, offset int) ([]Track, error) {
	accessToken, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("type", "track")
	params.Add("limit", "10")
	params.Add("offset", fmt.Sprintf("%d", offset))

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: search request failed with status %d", resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(searchResp.Tracks.Items))
	for _, item := range searchResp.Tracks.Items {
		track := Track{
			ID:         item.ID,
			Name:       item.Name,
			Album:      item.Album.Name,
			PreviewURL: item.PreviewURL,
			Duration:   item.Duration,
		}
		for _, artist := range item.Artists {
			track.Artists = append(track.Artists, artist.Name)
		}
		if len(item.Album.Images) > 0 {
			track.Image = item.Album.Images[0].URL
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}
