package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalScraper_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Write([]byte(`<html><head>
			<script>var tracking = "noise";</script>
			<style>body { color: red; }</style>
			</head><body><h1>Acme</h1>  <p>We   build  rockets.</p></body></html>`))
	}))
	defer srv.Close()

	s := NewLocalScraper(5 * time.Second)
	text, err := s.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "Acme We build rockets.", text)
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color: red")
}

func TestLocalScraper_Fetch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewLocalScraper(5 * time.Second)
	_, err := s.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestLocalScraper_Fetch_Unreachable(t *testing.T) {
	s := NewLocalScraper(1 * time.Second)
	_, err := s.Fetch(context.Background(), "http://127.0.0.1:1")

	require.Error(t, err)
}

func TestStripHTML(t *testing.T) {
	in := `<div><script type="text/javascript">x()</script><p>Hello<br/>world</p></div>`
	assert.Equal(t, "Hello world", stripHTML(in))
}
