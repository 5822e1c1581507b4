package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractJobText_PrefersJobDescriptionContainer(t *testing.T) {
	html := `<html><body>
		<nav>Home | Jobs | About</nav>
		<div class="job-description">
			<p>Build and operate backend services.</p>
			<p>Work with PostgreSQL and Go.</p>
		</div>
		<footer>© 2026</footer>
	</body></html>`

	text, err := ExtractJobText(html)
	require.NoError(t, err)
	assert.Contains(t, text, "Build and operate backend services.")
	assert.Contains(t, text, "Work with PostgreSQL and Go.")
	assert.NotContains(t, text, "Home | Jobs")
	assert.NotContains(t, text, "© 2026")
}

func TestExtractJobText_FallsBackToBody(t *testing.T) {
	html := `<html><body><p>A plain posting with no containers.</p></body></html>`

	text, err := ExtractJobText(html)
	require.NoError(t, err)
	assert.Equal(t, "A plain posting with no containers.", text)
}

func TestExtractJobText_RemovesScriptsAndNormalizesWhitespace(t *testing.T) {
	html := `<html><body><main>
		<script>trackUser();</script>

		   First line.

		Second line.
	</main></body></html>`

	text, err := ExtractJobText(html)
	require.NoError(t, err)
	assert.Equal(t, "First line.\nSecond line.", text)
	assert.NotContains(t, text, "trackUser")
}

func TestFetchJobDescription_FetchesAndExtracts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main><p>Senior Go engineer wanted.</p></main></body></html>`))
	}))
	defer server.Close()

	f := NewFetcher(zap.NewNop(), false)
	text, err := f.FetchJobDescription(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer wanted.", text)
}

func TestFetchJobDescription_RejectsInvalidURL(t *testing.T) {
	f := NewFetcher(zap.NewNop(), false)
	_, err := f.FetchJobDescription(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestFetchJobDescription_RejectsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(zap.NewNop(), false)
	_, err := f.FetchJobDescription(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestFetchJobDescription_RejectsEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	defer server.Close()

	f := NewFetcher(zap.NewNop(), false)
	_, err := f.FetchJobDescription(context.Background(), server.URL)
	assert.Error(t, err)
}
