package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dacraezy/archlinux-ai-cli/pkg/cache"
)

const opensearchBody = `["pacman",["Pacman","Pacman/Tips and tricks"],["",""],["https://wiki.archlinux.org/title/Pacman","https://wiki.archlinux.org/title/Pacman/Tips_and_tricks"]]`

func testClient(srv *httptest.Server) *Client {
	return &Client{
		http:     srv.Client(),
		endpoint: srv.URL,
		cacheTTL: time.Hour,
		noCache:  true,
	}
}

func TestSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("action") != "opensearch" {
			t.Errorf("action = %q, want opensearch", r.URL.Query().Get("action"))
		}
		if r.URL.Query().Get("search") != "pacman" {
			t.Errorf("search = %q, want pacman", r.URL.Query().Get("search"))
		}
		w.Write([]byte(opensearchBody))
	}))
	defer srv.Close()

	results, err := testClient(srv).Search(context.Background(), "pacman")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Title != "Pacman" {
		t.Errorf("results[0].Title = %q", results[0].Title)
	}
	if results[1].URL != "https://wiki.archlinux.org/title/Pacman/Tips_and_tricks" {
		t.Errorf("results[1].URL = %q", results[1].URL)
	}
}

func TestSearchEmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["zzz",[],[],[]]`))
	}))
	defer srv.Close()

	results, err := testClient(srv).Search(context.Background(), "zzz")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := testClient(srv).Search(context.Background(), "pacman"); err == nil {
		t.Error("Search should fail on HTTP 500")
	}
}

func TestParseOpensearchMalformed(t *testing.T) {
	cases := []string{
		`{"not":"an array"}`,
		`["only","two"]`,
		`not json at all`,
	}
	for _, body := range cases {
		if _, err := parseOpensearch([]byte(body)); err == nil {
			t.Errorf("parseOpensearch(%q) should fail", body)
		}
	}
}

func TestPageTextStripsChrome(t *testing.T) {
	page := `<html><head><style>body{}</style></head><body>
<nav>Site navigation</nav>
<header>Arch Wiki</header>
<div id="mw-content-text">
<p>Pacman is the package manager.</p>
<script>trackEverything()</script>
<p>Use pacman -Syu to upgrade.</p>
</div>
<footer>Footer junk</footer>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	text, err := testClient(srv).PageText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("PageText error: %v", err)
	}

	for _, want := range []string{"Pacman is the package manager.", "Use pacman -Syu to upgrade."} {
		if !strings.Contains(text, want) {
			t.Errorf("PageText missing %q in %q", want, text)
		}
	}
	for _, junk := range []string{"trackEverything", "Site navigation", "Footer junk", "body{}"} {
		if strings.Contains(text, junk) {
			t.Errorf("PageText should strip %q", junk)
		}
	}
}

func TestContextFormatsResults(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/api.php", func(w http.ResponseWriter, r *http.Request) {
		// Point the top hit back at this server
		body := `["q",["Pacman"],[""],["` + srv.URL + `/page"]]`
		w.Write([]byte(body))
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div id="mw-content-text"><p>Upgrade with pacman -Syu.</p></div></body></html>`))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	c := testClient(srv)
	c.endpoint = srv.URL + "/api.php"

	got, err := c.Context(context.Background(), "how to upgrade")
	if err != nil {
		t.Fatalf("Context error: %v", err)
	}

	if !strings.Contains(got, "Relevant Arch Wiki pages:") {
		t.Error("Context missing header")
	}
	if !strings.Contains(got, "- Pacman: "+srv.URL+"/page") {
		t.Errorf("Context missing result line: %q", got)
	}
	if !strings.Contains(got, "Upgrade with pacman -Syu.") {
		t.Errorf("Context missing page extract: %q", got)
	}
}

func TestContextNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["q",[],[],[]]`))
	}))
	defer srv.Close()

	got, err := testClient(srv).Context(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Context error: %v", err)
	}
	if got != "No specific Arch Wiki pages found for this query." {
		t.Errorf("Context = %q", got)
	}
}

func TestContextUsesCache(t *testing.T) {
	cache.SetDirForTest(t.TempDir())
	defer cache.SetDirForTest("")

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`["q",[],[],[]]`))
	}))
	defer srv.Close()

	c := testClient(srv)
	c.noCache = false

	for i := 0; i < 2; i++ {
		if _, err := c.Context(context.Background(), "cached query"); err != nil {
			t.Fatalf("Context error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("search called %d times, want 1 (second hit should come from cache)", calls)
	}
}
