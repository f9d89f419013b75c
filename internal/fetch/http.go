package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobharvest/internal/domain"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"
	DefaultTimeout   = 30 * time.Second

	maxBody = 8 << 20 // 8MB
)

// ErrTooLarge is returned for bodies over the size limit.
var ErrTooLarge = errors.New("response body too large")

// HTTP fetches pages with a plain GET. Non-2xx responses are errors.
type HTTP struct {
	hc        *http.Client
	userAgent string
	maxBody   int64
}

func NewHTTP(timeout time.Duration, userAgent string) *HTTP {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTP{
		hc:        &http.Client{Timeout: timeout},
		userAgent: userAgent,
		maxBody:   maxBody,
	}
}

func (h *HTTP) Fetch(ctx context.Context, rawURL string) (domain.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.Page{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := h.hc.Do(req)
	if err != nil {
		return domain.Page{}, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Page{}, fmt.Errorf("get %s: status %s", rawURL, resp.Status)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBody+1))
	if err != nil {
		return domain.Page{}, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if int64(len(b)) > h.maxBody {
		return domain.Page{}, fmt.Errorf("get %s: %w (limit %d bytes)", rawURL, ErrTooLarge, h.maxBody)
	}
	return domain.Page{URL: rawURL, Body: b}, nil
}
