package logged

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/testutil/mockserver"
)

type entry struct {
	err  error
	call string
}

type recordingLog struct {
	mu      sync.Mutex
	entries []entry
}

func (r *recordingLog) Record(err error, call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{err: err, call: call})
}

func (r *recordingLog) all() []entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entry(nil), r.entries...)
}

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func setup(t *testing.T) (*mockserver.Server, *Client, *recordingLog) {
	t.Helper()
	srv := mockserver.New()
	t.Cleanup(srv.Close)
	e, err := httpclient.New(httpclient.Config{}, httpclient.WithLogger(logger.NewNop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	log := &recordingLog{}
	return srv, New(e, WithErrorLog(log)), log
}

func TestNotFoundRecordsOnce(t *testing.T) {
	srv, c, log := setup(t)
	url := srv.URL("/status/404?body=not%20found")

	r := GetText(context.Background(), c, url)
	assert.False(t, r.IsPresent())
	assert.Equal(t, "", r.OrElse(""))

	entries := log.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "GET "+url, entries[0].call)
	terr, ok := httpclient.AsTransportError(entries[0].err)
	require.True(t, ok)
	assert.Equal(t, 404, terr.StatusCode)
	assert.Equal(t, "not found", terr.Body)
}

func TestSuccessRecordsNothing(t *testing.T) {
	srv, c, log := setup(t)
	ctx := context.Background()
	in := item{ID: 3, Name: "desk"}

	assert.Equal(t, `{"ok":true}`, GetText(ctx, c, srv.URL("/json")).OrElse(""))
	assert.Equal(t, "p", PostText(ctx, c, srv.URL("/echo"), "p", "text/plain").OrElse(""))
	assert.Equal(t, "u", PutText(ctx, c, srv.URL("/echo"), "u", "text/plain").OrElse(""))
	assert.Equal(t, "m", PatchText(ctx, c, srv.URL("/echo"), "m", "text/plain").OrElse(""))
	assert.True(t, DeleteText(ctx, c, srv.URL("/json")).IsPresent())

	got, ok := PostJSON[item, item](ctx, c, srv.URL("/echo"), in).Get()
	require.True(t, ok)
	assert.Equal(t, in, got)
	assert.Equal(t, in, PutJSON[item, item](ctx, c, srv.URL("/echo"), in).OrElse(item{}))
	assert.Equal(t, in, PatchJSON[item, item](ctx, c, srv.URL("/echo"), in).OrElse(item{}))
	assert.True(t, GetJSON[map[string]bool](ctx, c, srv.URL("/json")).OrElse(nil)["ok"])
	assert.True(t, DeleteJSON[map[string]bool](ctx, c, srv.URL("/json")).OrElse(nil)["ok"])

	assert.True(t, GetStatus(ctx, c, srv.URL("/json")).IsPresent())
	assert.True(t, PostStatus(ctx, c, srv.URL("/status/201"), in).IsPresent())
	assert.True(t, PutStatus(ctx, c, srv.URL("/status/200"), in).IsPresent())
	assert.True(t, PatchStatus(ctx, c, srv.URL("/status/200"), in).IsPresent())
	assert.True(t, DeleteStatus(ctx, c, srv.URL("/status/204")).IsPresent())

	p, ok := Exchange(ctx, c, http.MethodGet, srv.URL("/status/500"), "", "").Get()
	require.True(t, ok)
	assert.Equal(t, 500, p.StatusCode)

	assert.Empty(t, log.all())
}

func TestEachFailureRecordsOneEntry(t *testing.T) {
	srv, c, log := setup(t)
	ctx := context.Background()

	PostJSON[item, item](ctx, c, srv.URL("/status/200?body=%7Bbad"), item{})
	DeleteStatus(ctx, c, srv.URL("/status/409"))
	GetText(ctx, c, srv.URL("/json"), httpclient.WithTimeout(-1))

	entries := log.all()
	require.Len(t, entries, 3)
	assert.True(t, httpclient.IsDeserialization(entries[0].err))
	assert.Equal(t, "DELETE "+srv.URL("/status/409"), entries[1].call)
	assert.True(t, httpclient.IsValidation(entries[2].err))
}

func TestPanickingErrorLogIsSwallowed(t *testing.T) {
	srv, _, _ := setup(t)
	e, err := httpclient.New(httpclient.Config{}, httpclient.WithLogger(logger.NewNop()))
	require.NoError(t, err)
	defer e.Close()

	c := New(e, WithErrorLog(ErrorLogFunc(func(error, string) { panic("log down") })))
	assert.NotPanics(t, func() {
		r := GetText(context.Background(), c, srv.URL("/status/500"))
		assert.False(t, r.IsPresent())
	})
}

func TestLoggerErrorLog(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e, err := httpclient.New(httpclient.Config{}, httpclient.WithLogger(logger.NewNop()))
	require.NoError(t, err)
	defer e.Close()

	var buf bytes.Buffer
	l := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "test", &buf)
	c := New(e, WithErrorLog(LoggerErrorLog{Logger: l}))

	GetText(context.Background(), c, srv.URL("/status/404?body=nf"))

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"error_code":"status"`)
	assert.Contains(t, out, `"context":"GET `+srv.URL("/status/404?body=nf")+`"`)
}
