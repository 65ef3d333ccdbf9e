package advisory

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/ceylon/internal/model"
	"github.com/hitoshi/ceylon/internal/security"
)

// allowAllGuard はテスト用のSSRFガード。httptestのループバックURLを通すため、
// 検証をスキップし素のHTTPクライアントを返す。
type allowAllGuard struct{}

func (allowAllGuard) ValidateURL(rawURL string) error { return nil }

func (allowAllGuard) NewSafeClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

type denyAllGuard struct{}

func (denyAllGuard) ValidateURL(rawURL string) error {
	return &validationError{rawURL}
}

func (denyAllGuard) NewSafeClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

type validationError struct{ url string }

func (e *validationError) Error() string { return "blocked: " + e.url }

type mockAdvisoryRepo struct {
	upsertFn     func(ctx context.Context, advisory *model.Advisory) error
	listRecentFn func(ctx context.Context, limit int) ([]*model.Advisory, error)
}

func (m *mockAdvisoryRepo) Upsert(ctx context.Context, advisory *model.Advisory) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, advisory)
	}
	return nil
}

func (m *mockAdvisoryRepo) ListRecent(ctx context.Context, limit int) ([]*model.Advisory, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit)
	}
	return nil, nil
}

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Travel Advisories</title>
<item>
<guid>adv-1</guid>
<title>Heavy &lt;b&gt;rain&lt;/b&gt; warning</title>
<link>https://alerts.example.com/adv-1</link>
<description><![CDATA[<p>Flooding expected in <strong>Ratnapura</strong>.</p><script>alert(1)</script>]]></description>
<pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
</item>
<item>
<title>Road closure near Kandy</title>
<link>https://alerts.example.com/adv-2</link>
<description>Landslide debris on the A26.</description>
</item>
<item>
<title>Unidentifiable item</title>
<description>No guid and no link.</description>
</item>
</channel>
</rss>`

func newTestFetcher(t *testing.T, repo *mockAdvisoryRepo, feedURL string) *Fetcher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	return NewFetcher(repo, allowAllGuard{}, security.NewSanitizer(), logger, FetcherConfig{
		FeedURL:     feedURL,
		Timeout:     5 * time.Second,
		MaxBodySize: 1 << 20,
	}, nil)
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func TestFetchOnce_StoresSanitizedItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	var saved []*model.Advisory
	repo := &mockAdvisoryRepo{
		upsertFn: func(ctx context.Context, advisory *model.Advisory) error {
			saved = append(saved, advisory)
			return nil
		},
	}
	fetcher := newTestFetcher(t, repo, server.URL)

	stored, err := fetcher.FetchOnce(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// GUIDもリンクもない3件目はスキップされる
	if stored != 2 {
		t.Fatalf("stored = %d, want 2", stored)
	}

	first := saved[0]
	if first.GUID != "adv-1" {
		t.Errorf("guid = %q", first.GUID)
	}
	if first.ID == "" {
		t.Error("expected generated advisory ID")
	}
	if first.Title != "Heavy rain warning" {
		t.Errorf("title = %q, want tags stripped", first.Title)
	}
	if strings.Contains(first.Summary, "script") {
		t.Errorf("summary not sanitized: %q", first.Summary)
	}
	if !strings.Contains(first.Summary, "<strong>Ratnapura</strong>") {
		t.Errorf("allowed formatting should survive: %q", first.Summary)
	}
	if first.PublishedAt.IsZero() {
		t.Error("published date should be parsed")
	}

	// GUIDのない2件目はリンクをGUIDとして使用する
	second := saved[1]
	if second.GUID != "https://alerts.example.com/adv-2" {
		t.Errorf("fallback guid = %q", second.GUID)
	}
	if second.PublishedAt.IsZero() {
		t.Error("missing pubDate should fall back to fetch time")
	}
}

func TestFetchOnce_BlockedURL_ReturnsError(t *testing.T) {
	upsertCalled := false
	repo := &mockAdvisoryRepo{
		upsertFn: func(ctx context.Context, advisory *model.Advisory) error {
			upsertCalled = true
			return nil
		},
	}
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	fetcher := NewFetcher(repo, denyAllGuard{}, security.NewSanitizer(), logger, FetcherConfig{
		FeedURL:     "http://169.254.169.254/latest/meta-data/",
		Timeout:     time.Second,
		MaxBodySize: 1 << 20,
	}, nil)

	if _, err := fetcher.FetchOnce(context.Background()); err == nil {
		t.Fatal("expected error for blocked URL")
	}
	if upsertCalled {
		t.Error("nothing must be stored when validation fails")
	}
}

func TestFetchOnce_ServerError_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := newTestFetcher(t, &mockAdvisoryRepo{}, server.URL)

	if _, err := fetcher.FetchOnce(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestFetchOnce_InvalidFeed_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not a feed"))
	}))
	defer server.Close()

	fetcher := newTestFetcher(t, &mockAdvisoryRepo{}, server.URL)

	if _, err := fetcher.FetchOnce(context.Background()); err == nil {
		t.Fatal("expected parse error")
	}
}
