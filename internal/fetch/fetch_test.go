package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_FetchesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "JobSector")
		_, _ = w.Write([]byte("<html><body>posting</body></html>"))
	}))
	defer srv.Close()

	html, err := URL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "posting")
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not a url")
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestURL_Non200Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := URL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractPosting_TitleAndDescription(t *testing.T) {
	html := `<html><head><title>ACME Jobs</title></head><body>
		<nav>Home | Jobs</nav>
		<h1>Solar Installer</h1>
		<div class="job-description">
			<p>Install rooftop photovoltaic   systems.</p>
			<p>Full training provided.</p>
		</div>
		<footer>Copyright ACME</footer>
	</body></html>`

	job, err := ExtractPosting(html)
	require.NoError(t, err)

	assert.Equal(t, "Solar Installer", job.Title)
	assert.Contains(t, job.Description, "Install rooftop photovoltaic systems.")
	assert.Contains(t, job.Description, "Full training provided.")
	assert.NotContains(t, job.Description, "Copyright")
	assert.NotContains(t, job.Description, "Home | Jobs")
}

func TestExtractPosting_FallsBackToPageTitle(t *testing.T) {
	html := `<html><head><title>Wind Technician - ACME</title></head><body>
		<p>Maintain turbines.</p>
	</body></html>`

	job, err := ExtractPosting(html)
	require.NoError(t, err)
	assert.Equal(t, "Wind Technician - ACME", job.Title)
	assert.Contains(t, job.Description, "Maintain turbines.")
}

func TestExtractPosting_SelectorPriority(t *testing.T) {
	html := `<html><body>
		<h1>Nurse</h1>
		<main>everything else</main>
		<div class="job-description">the actual posting</div>
	</body></html>`

	job, err := ExtractPosting(html)
	require.NoError(t, err)
	assert.Equal(t, "the actual posting", job.Description)
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser(""))
	assert.True(t, ShouldUseBrowser("   short   "))
	assert.False(t, ShouldUseBrowser(strings.Repeat("long posting text ", 50)))
}

func TestCleanWhitespace(t *testing.T) {
	in := "Line one\t\t  here\r\n\n\n\n\nLine two"
	out := cleanWhitespace(in)
	assert.Equal(t, "Line one here\n\nLine two", out)
}
