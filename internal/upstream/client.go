// Package upstream implements the Upstream Client: authenticated,
// proxy-aware, rate-limited access to the tracked social platform.
package upstream

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"

	"github.com/reeltracker/worker/internal/config"
	"github.com/reeltracker/worker/internal/pkg/util"
)

const baseURL = "https://i.instagram.com/api/v1"

const defaultUserAgent = "Instagram 302.0.0.23.114 Android"

// Client is the Upstream Client. All outbound calls serialize through
// a single gate and pace themselves with a jittered delay.
type Client struct {
	http *resty.Client
	cfg  config.UpstreamConfig
	gate *gate

	browserCtx context.Context
	cancel     context.CancelFunc

	session *Session
}

// NewClient builds an Upstream Client. The headless browser used for
// challenge handling is started lazily on first need, not here, so a
// worker that never hits a checkpoint page never pays chromedp's
// startup cost.
func NewClient(cfg config.UpstreamConfig) *Client {
	httpClient := resty.New().
		SetTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: false}).
		SetHeader("User-Agent", defaultUserAgent)

	if cfg.Proxy != "" {
		httpClient.SetProxy(cfg.Proxy)
	}

	return &Client{
		http: httpClient,
		cfg:  cfg,
		gate: newGate(),
	}
}

// Close releases the headless browser if one was started.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Client) ensureBrowser() {
	if c.browserCtx != nil {
		return
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(defaultUserAgent),
	)
	if c.cfg.Proxy != "" {
		opts = append(opts, chromedp.ProxyServer(c.cfg.Proxy))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	c.browserCtx = browserCtx
	c.cancel = func() {
		browserCancel()
		allocCancel()
	}
}

// Authenticate resolves a usable session. Mode precedence: (a) a
// persisted session blob at SessionFile, (b) a configured session
// token (+ optional CSRF token), (c) username+password. On (c),
// success persists the resulting session blob for reuse next run.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.cfg.SessionFile != "" {
		if s, err := loadSession(c.cfg.SessionFile); err == nil && s != nil {
			c.session = s
			log.InfoContext(ctx, "reusing persisted session", "path", c.cfg.SessionFile)
			return nil
		}
	}

	if c.cfg.SessionToken != "" {
		c.session = &Session{
			Cookies:   c.cfg.SessionToken,
			CSRFToken: c.cfg.CSRFToken,
			UserAgent: defaultUserAgent,
		}
		return c.persistSession(ctx)
	}

	if c.cfg.Username != "" && c.cfg.Password != "" {
		return c.loginWithCredentials(ctx)
	}

	return &AuthError{Reason: "no credential mode configured"}
}

func (c *Client) loginWithCredentials(ctx context.Context) error {
	release, err := c.gate.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	resp, err := c.http.R().SetContext(ctx).
		SetFormData(map[string]string{
			"username": c.cfg.Username,
			"password": c.cfg.Password,
		}).
		Post(baseURL + "/accounts/login/")
	if err != nil {
		return &TransientNetworkError{Err: err}
	}

	body := resp.String()
	if resp.StatusCode() == http.StatusOK && !looksLikeChallenge(body) {
		var payload struct {
			SessionID string `json:"sessionid"`
			CSRFToken string `json:"csrf_token"`
		}
		if err := json.Unmarshal(resp.Body(), &payload); err != nil {
			return &AuthError{Reason: "malformed login response: " + err.Error()}
		}
		c.session = &Session{
			Cookies:   payload.SessionID,
			CSRFToken: payload.CSRFToken,
			UserAgent: defaultUserAgent,
		}
		return c.persistSession(ctx)
	}

	if looksLikeChallenge(body) {
		c.ensureBrowser()
		summary := c.challengeText(ctx, resp.Request.URL, body)
		return &AuthError{Reason: "checkpoint required: " + summary}
	}

	return &AuthError{Reason: fmt.Sprintf("login failed with status %d", resp.StatusCode())}
}

func (c *Client) persistSession(ctx context.Context) error {
	if c.cfg.SessionFile == "" || c.session == nil {
		return nil
	}
	if err := saveSession(c.cfg.SessionFile, c.session); err != nil {
		log.WarnContext(ctx, "failed to persist session", "err", err)
	}
	return nil
}

func (c *Client) authedRequest(ctx context.Context) (*resty.Request, error) {
	if c.session == nil {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}
	req := c.http.R().SetContext(ctx).
		SetHeader("Cookie", "sessionid="+c.session.Cookies)
	if c.session.CSRFToken != "" {
		req.SetHeader("X-CSRFToken", c.session.CSRFToken)
	}
	return req, nil
}

// classify maps a resty response's status code (or transport error)
// to the Upstream Client's error taxonomy.
func classify(resp *resty.Response, err error) error {
	if err != nil {
		return &TransientNetworkError{Err: err}
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusNotFound, http.StatusGone:
		return &NotFoundError{Target: resp.Request.URL}
	case http.StatusTooManyRequests:
		retryAfter := 60
		if v := resp.Header().Get("Retry-After"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				retryAfter = n
			}
		}
		return &RateLimitError{RetryAfter: retryAfter}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Reason: fmt.Sprintf("status %d", resp.StatusCode())}
	default:
		if resp.StatusCode() >= 500 {
			return &TransientNetworkError{Err: fmt.Errorf("status %d", resp.StatusCode())}
		}
		return &TransientNetworkError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode())}
	}
}

// ResolveUsername resolves a username into the platform's stable
// numeric user key.
func (c *Client) ResolveUsername(ctx context.Context, username string) (uint64, error) {
	var userPK uint64
	err := util.Retry(ctx, isTransient, func() error {
		release, gerr := c.gate.acquire(ctx)
		if gerr != nil {
			return gerr
		}
		defer release()
		defer jitterDelay(ctx)

		req, aerr := c.authedRequest(ctx)
		if aerr != nil {
			return aerr
		}
		resp, rerr := req.Get(fmt.Sprintf("%s/users/%s/usernameinfo/", baseURL, username))
		if cerr := classify(resp, rerr); cerr != nil {
			return cerr
		}

		var payload struct {
			User struct {
				PK uint64 `json:"pk"`
			} `json:"user"`
		}
		if err := json.Unmarshal(resp.Body(), &payload); err != nil {
			return &TransientNetworkError{Err: err}
		}
		userPK = payload.User.PK
		return nil
	})
	return userPK, err
}

// RecentMedia lists an account's most recent media, newest first, along
// with the raw response body for the Raw Payload Archive (C14).
func (c *Client) RecentMedia(ctx context.Context, userPK uint64, limit int) ([]MediaSummary, []byte, error) {
	var items []MediaSummary
	var rawBody []byte
	err := util.Retry(ctx, isTransient, func() error {
		release, gerr := c.gate.acquire(ctx)
		if gerr != nil {
			return gerr
		}
		defer release()
		defer jitterDelay(ctx)

		req, aerr := c.authedRequest(ctx)
		if aerr != nil {
			return aerr
		}
		resp, rerr := req.
			SetQueryParam("count", strconv.Itoa(limit)).
			Get(fmt.Sprintf("%s/feed/user/%d/", baseURL, userPK))
		if cerr := classify(resp, rerr); cerr != nil {
			return cerr
		}
		rawBody = resp.Body()

		var payload struct {
			Items []struct {
				PK          uint64 `json:"pk"`
				Code        string `json:"code"`
				Caption     *struct {
					Text string `json:"text"`
				} `json:"caption"`
				TakenAt      int64 `json:"taken_at"`
				VideoDuration float64 `json:"video_duration"`
				VideoVersions []struct {
					URL string `json:"url"`
				} `json:"video_versions"`
				ViewCount      uint64 `json:"view_count"`
				LikeCount      uint64 `json:"like_count"`
				CommentCount   uint64 `json:"comment_count"`
				User           struct {
					FollowerCount uint64 `json:"follower_count"`
				} `json:"user"`
			} `json:"items"`
		}
		if err := json.Unmarshal(resp.Body(), &payload); err != nil {
			return &TransientNetworkError{Err: err}
		}

		items = make([]MediaSummary, 0, len(payload.Items))
		for _, it := range payload.Items {
			m := MediaSummary{
				VideoID:         it.PK,
				Shortcode:       it.Code,
				DurationSeconds: int(it.VideoDuration),
				PublishedAt:     time.Unix(it.TakenAt, 0).UTC(),
				ViewCount:       it.ViewCount,
				LikeCount:       it.LikeCount,
				CommentCount:    it.CommentCount,
				FollowersCount:  it.User.FollowerCount,
			}
			if it.Caption != nil {
				m.Caption = it.Caption.Text
			}
			if len(it.VideoVersions) > 0 {
				m.URL = it.VideoVersions[0].URL
				m.AudioURL = it.VideoVersions[0].URL
			}
			items = append(items, m)
		}
		return nil
	})
	return items, rawBody, err
}

// MediaMetrics fetches fresh engagement counts for a single video,
// along with the raw response body for the Raw Payload Archive (C14).
func (c *Client) MediaMetrics(ctx context.Context, videoID uint64) (*MetricsResult, []byte, error) {
	var result MetricsResult
	var rawBody []byte
	err := util.Retry(ctx, isTransient, func() error {
		release, gerr := c.gate.acquire(ctx)
		if gerr != nil {
			return gerr
		}
		defer release()
		defer jitterDelay(ctx)

		req, aerr := c.authedRequest(ctx)
		if aerr != nil {
			return aerr
		}
		resp, rerr := req.Get(fmt.Sprintf("%s/media/%d/info/", baseURL, videoID))
		if cerr := classify(resp, rerr); cerr != nil {
			return cerr
		}
		rawBody = resp.Body()

		var payload struct {
			Items []struct {
				ViewCount    uint64  `json:"view_count"`
				LikeCount    uint64  `json:"like_count"`
				CommentCount uint64  `json:"comment_count"`
				SaveCount    *uint64 `json:"save_count"`
				User         struct {
					FollowerCount uint64 `json:"follower_count"`
				} `json:"user"`
			} `json:"items"`
		}
		if err := json.Unmarshal(resp.Body(), &payload); err != nil {
			return &TransientNetworkError{Err: err}
		}
		if len(payload.Items) == 0 {
			return &NotFoundError{Target: fmt.Sprintf("media/%d", videoID)}
		}

		item := payload.Items[0]
		result = MetricsResult{
			ViewCount:      item.ViewCount,
			LikeCount:      item.LikeCount,
			CommentCount:   item.CommentCount,
			SaveCount:      item.SaveCount,
			FollowersCount: item.User.FollowerCount,
		}
		return nil
	})
	return &result, rawBody, err
}

// isTransient is the retry predicate for util.Retry: only transient
// network errors are worth a local retry, up to len(util.Backoff)
// (three) retries per call. The configured RetryBudget is not read.
func isTransient(err error) bool {
	var t *TransientNetworkError
	return errors.As(err, &t)
}
