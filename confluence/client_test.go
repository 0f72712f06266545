package confluence

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgwest/htmldiff-cli/model"
)

var testCred = model.Credential{Username: "operator", Password: "hunter2"}

func attachmentListJSON(id string, download string) string {
	if id == "" {
		return `{"results":[]}`
	}
	return fmt.Sprintf(`{"results":[{"id":%q,"title":"report.html","_links":{"download":%q}}]}`, id, download)
}

func TestFetchDownloadsAttachment(t *testing.T) {

	var sawAuth bool

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/content/123/child/attachment", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		sawAuth = ok && user == "operator" && pass == "hunter2"
		assert.Equal(t, "report.html", r.URL.Query().Get("filename"))
		fmt.Fprint(w, attachmentListJSON("att1", "/download/attachments/123/report.html"))
	})
	mux.HandleFunc("/download/attachments/123/report.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>report</html>")
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	destPath := filepath.Join(t.TempDir(), "report.html")

	client := NewClient(server.URL, false)
	require.NoError(t, client.Fetch(context.Background(), "123/report.html", destPath, testCred))

	content, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, "<html>report</html>", string(content))
	assert.True(t, sawAuth)
}

func TestFetchMissingAttachment(t *testing.T) {

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/content/123/child/attachment", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, attachmentListJSON("", ""))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.URL, false)
	err := client.Fetch(context.Background(), "123/missing.html", filepath.Join(t.TempDir(), "missing.html"), testCred)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no attachment")
}

func TestPublishCreatesNewAttachment(t *testing.T) {

	var uploadedTo string
	var atlassianToken string

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/content/123/child/attachment", func(w http.ResponseWriter, r *http.Request) {

		if r.Method == http.MethodGet {
			fmt.Fprint(w, attachmentListJSON("", ""))
			return
		}

		uploadedTo = r.URL.Path
		atlassianToken = r.Header.Get("X-Atlassian-Token")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "report.html", header.Filename)
		assert.Equal(t, "true", r.FormValue("minorEdit"))

		fmt.Fprint(w, `{}`)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	sourcePath := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, os.WriteFile(sourcePath, []byte("<html></html>"), 0644))

	client := NewClient(server.URL, false)
	require.NoError(t, client.Publish(context.Background(), "123/report.html", sourcePath, testCred))

	assert.Equal(t, "/rest/api/content/123/child/attachment", uploadedTo)
	assert.Equal(t, "nocheck", atlassianToken)
}

func TestPublishUpdatesExistingAttachment(t *testing.T) {

	var uploadedTo string

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/content/123/child/attachment", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, attachmentListJSON("att9", "/download/attachments/123/report.html"))
	})
	mux.HandleFunc("/rest/api/content/123/child/attachment/att9/data", func(w http.ResponseWriter, r *http.Request) {
		uploadedTo = r.URL.Path
		fmt.Fprint(w, `{}`)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	sourcePath := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, os.WriteFile(sourcePath, []byte("<html></html>"), 0644))

	client := NewClient(server.URL, false)
	require.NoError(t, client.Publish(context.Background(), "123/report.html", sourcePath, testCred))

	assert.Equal(t, "/rest/api/content/123/child/attachment/att9/data", uploadedTo)
}

func TestPublishReportsServerError(t *testing.T) {

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/content/123/child/attachment", func(w http.ResponseWriter, r *http.Request) {

		if r.Method == http.MethodGet {
			fmt.Fprint(w, attachmentListJSON("", ""))
			return
		}

		w.WriteHeader(http.StatusServiceUnavailable)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	sourcePath := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, os.WriteFile(sourcePath, []byte("<html></html>"), 0644))

	client := NewClient(server.URL, false)
	err := client.Publish(context.Background(), "123/report.html", sourcePath, testCred)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestSplitID(t *testing.T) {

	for _, c := range []struct {
		input     string
		pageID    string
		filename  string
		expectErr bool
	}{
		{input: "123/report.html", pageID: "123", filename: "report.html"},
		{input: "123/reports/report.html", pageID: "123", filename: "report.html"},
		{input: "report.html", expectErr: true},
		{input: "123/", expectErr: true},
		{input: "/report.html", expectErr: true},
	} {

		pageID, filename, err := splitID(c.input)

		if c.expectErr {
			assert.Error(t, err, c.input)
			continue
		}

		require.NoError(t, err, c.input)
		assert.Equal(t, c.pageID, pageID)
		assert.Equal(t, c.filename, filename)
	}
}
