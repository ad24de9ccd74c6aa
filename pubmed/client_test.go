package pubmed_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/poldracklab/labutils/pubmed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler, mutate func(*pubmed.Options)) *pubmed.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts := pubmed.Options{BaseURL: srv.URL, Email: "test@test.com", RateLimit: 1000}
	if mutate != nil {
		mutate(&opts)
	}
	c, err := pubmed.NewClient(opts)
	require.NoError(t, err)
	return c
}

func fixtureHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pubmed", r.URL.Query().Get("db"))
		assert.Equal(t, "test@test.com", r.URL.Query().Get("email"))
		switch {
		case strings.HasSuffix(r.URL.Path, "/esearch.fcgi"):
			http.ServeFile(w, r, "testdata/esearch.xml")
		case strings.HasSuffix(r.URL.Path, "/efetch.fcgi"):
			assert.Equal(t, "23587201", r.URL.Query().Get("id"))
			http.ServeFile(w, r, "testdata/efetch.xml")
		default:
			http.NotFound(w, r)
		}
	})
}

func TestClient_ProcessedQuery(t *testing.T) {
	var mu sync.Mutex
	var endpoints []string
	c := newTestClient(t, fixtureHandler(t), func(o *pubmed.Options) {
		o.OnRequest = func(ep string, err error, _ time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			assert.NoError(t, err)
			endpoints = append(endpoints, ep)
		}
	})

	recs, err := c.ProcessedQuery(context.Background(), "'Badomics words and the power and peril of the ome-meme'", 0)
	require.NoError(t, err)
	rec, ok := recs["10.1186/2047-217x-1-6"]
	require.True(t, ok)
	assert.Equal(t, "Gigascience", rec.Journal)
	assert.Equal(t, 23587201, rec.PMID)
	assert.Equal(t, []string{"esearch.fcgi", "efetch.fcgi"}, endpoints)
}

func TestClient_FetchBatches(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		ids := strings.Split(r.URL.Query().Get("id"), ",")
		var b strings.Builder
		b.WriteString("<PubmedArticleSet>")
		for _, id := range ids {
			fmt.Fprintf(&b, "<PubmedArticle><MedlineCitation><PMID>%s</PMID></MedlineCitation></PubmedArticle>", id)
		}
		b.WriteString("</PubmedArticleSet>")
		_, _ = w.Write([]byte(b.String()))
	})
	c := newTestClient(t, h, func(o *pubmed.Options) {
		o.BatchSize = 2
		o.Concurrency = 3
	})

	set, err := c.Fetch(context.Background(), []int{5, 4, 3, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, set.Articles, 5)
	for i, want := range []string{"5", "4", "3", "2", "1"} {
		assert.Equal(t, want, set.Articles[i].MedlineCitation.PMID)
	}

	empty, err := c.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Articles)
}

func TestClient_Errors(t *testing.T) {
	_, err := pubmed.NewClient(pubmed.Options{})
	assert.ErrorIs(t, err, pubmed.ErrMissingEmail)

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}), nil)
	_, err = c.Search(context.Background(), "  ", 10)
	assert.ErrorIs(t, err, pubmed.ErrEmptyQuery)
	_, err = c.Search(context.Background(), "fmri", 10)
	assert.ErrorIs(t, err, pubmed.ErrHTTPStatus)

	entrez := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<eSearchResult><ERROR>Invalid db name specified: pub</ERROR></eSearchResult>"))
	}), nil)
	_, err = entrez.Search(context.Background(), "fmri", 10)
	assert.ErrorIs(t, err, pubmed.ErrEntrez)

	badID := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<eSearchResult><IdList><Id>x1</Id></IdList></eSearchResult>"))
	}), nil)
	_, err = badID.Search(context.Background(), "fmri", 10)
	assert.ErrorIs(t, err, pubmed.ErrBadPMID)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok := newTestClient(t, fixtureHandler(t), nil)
	_, err = ok.Search(ctx, "fmri", 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_APIKeyForwarded(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "labutils", r.URL.Query().Get("tool"))
		http.ServeFile(w, r, "testdata/esearch.xml")
	}), func(o *pubmed.Options) { o.APIKey = "secret" })

	ids, err := c.Search(context.Background(), "ome-meme", 5)
	require.NoError(t, err)
	assert.Equal(t, []int{23587201}, ids)
}

func TestEmailFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(pubmed.EmailEnv, "")
	_, err := pubmed.EmailFromEnv()
	assert.ErrorIs(t, err, pubmed.ErrMissingEmail)

	require.NoError(t, os.WriteFile(filepath.Join(".", ".env"), []byte("ENTREZ_EMAIL=dotenv@lab.org\n"), 0o600))
	got, err := pubmed.EmailFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "dotenv@lab.org", got)

	t.Setenv(pubmed.EmailEnv, "env@lab.org")
	got, err = pubmed.EmailFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "env@lab.org", got)
}
