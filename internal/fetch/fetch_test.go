package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/al-mudeer/inbox-agent/internal/config"
)

func TestFirstURL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "check https://example.com/page please", "https://example.com/page"},
		{"trailing period", "see https://example.com/page.", "https://example.com/page"},
		{"http scheme", "http://example.com works too", "http://example.com"},
		{"first of two", "https://a.com and https://b.com", "https://a.com"},
		{"arabic text", "شوف الرابط https://example.com/منتج وقلي رايك", "https://example.com/منتج"},
		{"none", "no links here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstURL(tt.text))
		})
	}
}

func TestFetch_StripsBoilerplate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<title>Product</title>
			<script>tracking();</script>
			<style>body { color: red }</style>
		</head><body>
			<nav><a href="/">Home</a></nav>
			<h1>Widget &amp; Co</h1>
			<p>Price: 50 SAR</p>
			<footer>copyright</footer>
		</body></html>`))
	}))
	defer srv.Close()

	f := New(config.FetchConfig{TimeoutSecs: 5, MaxChars: 2000})
	text, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Contains(t, text, "Widget & Co")
	assert.Contains(t, text, "Price: 50 SAR")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "Home")
	assert.NotContains(t, text, "copyright")
}

func TestFetch_TruncatesToMaxChars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<p>" + strings.Repeat("x", 5000) + "</p>"))
	}))
	defer srv.Close()

	f := New(config.FetchConfig{TimeoutSecs: 5, MaxChars: 100})
	text, err := f.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Len(t, []rune(text), 100)
}

func TestFetch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(config.FetchConfig{TimeoutSecs: 5, MaxChars: 2000})
	_, err := f.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetch_UnreachableHost(t *testing.T) {
	f := New(config.FetchConfig{TimeoutSecs: 1, MaxChars: 2000})
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1")
	assert.Error(t, err)
}
