package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gaurav-prasanna/mdpipe/core"
	"github.com/gaurav-prasanna/mdpipe/core/markdown"
	"github.com/gaurav-prasanna/mdpipe/core/render"
	"github.com/gaurav-prasanna/mdpipe/core/sanitize"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	s := New(render.NewDialect(markdown.DefaultOptions()), opts)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestRender(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := post(t, srv.URL+"/v1/render", `{"markdown": "# Guide\n\n## Use **it**"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got renderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "Guide", got.Title)
	assert.Equal(t, markdown.Render("# Guide\n\n## Use **it**"), got.HTML)
	assert.Equal(t, []core.Heading{
		{ID: "guide", Title: "Guide", Level: 1},
		{ID: "use-it", Title: "Use **it**", Level: 2},
	}, got.TOC)
}

func TestRenderSanitize(t *testing.T) {
	srv := newTestServer(t, Options{Sanitizer: sanitize.New()})
	src := `"<img src=x onerror=alert(1)>"`

	var plain, clean renderResponse
	require.NoError(t, json.NewDecoder(post(t, srv.URL+"/v1/render", `{"markdown": `+src+`}`).Body).Decode(&plain))
	require.NoError(t, json.NewDecoder(post(t, srv.URL+"/v1/render", `{"markdown": `+src+`, "sanitize": true}`).Body).Decode(&clean))

	assert.Contains(t, plain.HTML, "onerror")
	assert.NotContains(t, clean.HTML, "onerror")
}

func TestRenderAlwaysSanitize(t *testing.T) {
	srv := newTestServer(t, Options{Sanitizer: sanitize.New(), AlwaysSanitize: true})
	var got renderResponse
	resp := post(t, srv.URL+"/v1/render", `{"markdown": "<script>x()</script>"}`)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotContains(t, got.HTML, "<script")
	assert.Equal(t, []core.Heading{}, got.TOC)
}

func TestTOC(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp := post(t, srv.URL+"/v1/toc", `{"markdown": "text only"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"toc": []}`, string(body))
}

func TestTOCMatchesRenderWithFrontMatter(t *testing.T) {
	srv := newTestServer(t, Options{FrontMatter: true})
	body := `{"markdown": "---\n# draft: yes\ntitle: T\n---\n# Real"}`

	var rendered renderResponse
	require.NoError(t, json.NewDecoder(post(t, srv.URL+"/v1/render", body).Body).Decode(&rendered))
	var toc tocResponse
	require.NoError(t, json.NewDecoder(post(t, srv.URL+"/v1/toc", body).Body).Decode(&toc))

	want := []core.Heading{{ID: "real", Title: "Real", Level: 1}}
	assert.Equal(t, want, rendered.TOC)
	assert.Equal(t, want, toc.TOC)
	assert.Equal(t, "T", rendered.Title)
}

func TestUnterminatedFrontMatter(t *testing.T) {
	srv := newTestServer(t, Options{FrontMatter: true})
	body := `{"markdown": "---\ntitle: T\n# Real"}`
	assert.Equal(t, http.StatusUnprocessableEntity, post(t, srv.URL+"/v1/render", body).StatusCode)
	assert.Equal(t, http.StatusUnprocessableEntity, post(t, srv.URL+"/v1/toc", body).StatusCode)
}

func TestRequestErrors(t *testing.T) {
	srv := newTestServer(t, Options{MaxBodyBytes: 64})

	resp, err := http.Get(srv.URL + "/v1/render")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))

	assert.Equal(t, http.StatusBadRequest, post(t, srv.URL+"/v1/toc", `{"markdown": `).StatusCode)
	assert.Equal(t, http.StatusBadRequest, post(t, srv.URL+"/v1/render", `["not", "an", "object"]`).StatusCode)

	big := `{"markdown": "` + strings.Repeat("x", 200) + `"}`
	assert.Equal(t, http.StatusRequestEntityTooLarge, post(t, srv.URL+"/v1/render", big).StatusCode)
}

func TestRequestsAreLogged(t *testing.T) {
	obs, logs := observer.New(zap.InfoLevel)
	srv := newTestServer(t, Options{Logger: zap.New(obs)})

	resp := post(t, srv.URL+"/v1/toc", `{"markdown": "# A"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/v1/toc", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(render.NewDialect(markdown.DefaultOptions()), Options{Logger: zaptest.NewLogger(t)})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
