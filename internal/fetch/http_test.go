package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTP_Fetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ua":
			_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
		case "/ok":
			_, _ = w.Write([]byte("<html>ok</html>"))
		case "/missing":
			http.Error(w, "nope", http.StatusNotFound)
		case "/big":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte("late"))
		}
	}))
	defer ts.Close()

	h := NewHTTP(100*time.Millisecond, "test-agent")

	t.Run("ok", func(t *testing.T) {
		page, err := h.Fetch(context.Background(), ts.URL+"/ok")
		require.NoError(t, err)
		assert.Equal(t, "<html>ok</html>", string(page.Body))
		assert.Equal(t, ts.URL+"/ok", page.URL)

		page, err = h.Fetch(context.Background(), ts.URL+"/ua")
		require.NoError(t, err)
		assert.Equal(t, "test-agent", string(page.Body))
	})

	t.Run("non 2xx", func(t *testing.T) {
		_, err := h.Fetch(context.Background(), ts.URL+"/missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("timeout", func(t *testing.T) {
		_, err := h.Fetch(context.Background(), ts.URL+"/slow")
		require.Error(t, err)
	})

	t.Run("body over limit", func(t *testing.T) {
		small := NewHTTP(time.Second, "test-agent")
		small.maxBody = 64
		page, err := small.Fetch(context.Background(), ts.URL+"/big")
		require.NoError(t, err, "exactly at the limit")
		assert.Len(t, page.Body, 64)

		small.maxBody = 63
		_, err = small.Fetch(context.Background(), ts.URL+"/big")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := h.Fetch(context.Background(), "://bad")
		require.Error(t, err)
	})
}

func TestNewHTTP_Defaults(t *testing.T) {
	h := NewHTTP(0, "")
	assert.Equal(t, DefaultTimeout, h.hc.Timeout)
	assert.Equal(t, DefaultUserAgent, h.userAgent)
	assert.Equal(t, int64(maxBody), h.maxBody)
}
