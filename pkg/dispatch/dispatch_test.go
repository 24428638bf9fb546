package dispatch

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/getmockd/queuestub/pkg/handler"
	"github.com/getmockd/queuestub/pkg/logging"
	"github.com/getmockd/queuestub/pkg/util"
)

// indexed is a handler that remembers its registration index.
type indexed int

func (i indexed) Evaluate(*http.Request) handler.Response {
	return handler.Response{StatusCode: http.StatusOK, Body: []byte(strconv.Itoa(int(i)))}
}

func TestQueue_FIFO(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Register(indexed(i)))
	}
	assert.Equal(t, 3, q.Len())

	for i := 0; i < 3; i++ {
		h, ok := q.NextOrDefault()
		require.True(t, ok)
		assert.Equal(t, indexed(i), h)
	}

	h, ok := q.NextOrDefault()
	assert.False(t, ok)
	assert.Equal(t, handler.Default, h)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_RegisterNil(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	assert.ErrorIs(t, q.Register(nil), ErrNilHandler)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_Drain(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	require.NoError(t, q.Register(indexed(0)))
	require.NoError(t, q.Register(indexed(1)))

	rest := q.Drain()
	assert.Equal(t, []handler.Handler{indexed(0), indexed(1)}, rest)
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())
}

func TestQueue_ConcurrentConsumersNeverShareOrReorder(t *testing.T) {
	t.Parallel()

	const total = 2000
	const consumers = 8

	q := NewQueue()
	for i := 0; i < total; i++ {
		require.NoError(t, q.Register(indexed(i)))
	}

	results := make([][]int, consumers)
	var g errgroup.Group
	for c := 0; c < consumers; c++ {
		g.Go(func() error {
			for {
				h, ok := q.NextOrDefault()
				if !ok {
					return nil
				}
				results[c] = append(results[c], int(h.(indexed)))
			}
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[int]bool, total)
	for _, got := range results {
		// Each consumer observes strictly increasing registration indices.
		for i := 1; i < len(got); i++ {
			assert.Less(t, got[i-1], got[i])
		}
		for _, idx := range got {
			assert.False(t, seen[idx], "handler %d delivered twice", idx)
			seen[idx] = true
		}
	}
	assert.Len(t, seen, total)
}

func TestQueue_ConcurrentRegisterAndConsume(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, q.Register(indexed(i)))
		}(i)
	}
	wg.Wait()

	got := make(map[handler.Handler]bool)
	for {
		h, ok := q.NextOrDefault()
		if !ok {
			break
		}
		got[h] = true
	}
	assert.Len(t, got, 100)
}

func TestDispatcher_ServesInOrderThenDefault(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	require.NoError(t, q.Register(handler.New("/ok").WithStatus(http.StatusOK).WithBodyString("first").MustBuild()))
	require.NoError(t, q.Register(handler.New("/ok").WithStatus(http.StatusAccepted).WithBodyString("second").MustBuild()))
	d := NewDispatcher(q, nil)

	tests := []struct {
		status int
		body   string
	}{
		{http.StatusOK, "first"},
		{http.StatusAccepted, "second"},
		{http.StatusInternalServerError, ""},
	}
	for _, want := range tests {
		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, want.status, rec.Code)
		assert.Equal(t, want.body, rec.Body.String())
	}

	assert.Equal(t, Stats{Dispatched: 2, Underruns: 1}, d.Stats())
}

func TestDispatcher_MismatchConsumesHandler(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	require.NoError(t, q.Register(handler.New("/expected").WithStatus(http.StatusOK).MustBuild()))
	d := NewDispatcher(q, nil)

	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unexpected", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, uint64(1), d.Stats().Dispatched)
}

func TestDispatcher_RecoversPanic(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	require.NoError(t, q.Register(handler.Func(func(*http.Request) handler.Response {
		panic("boom")
	})))
	require.NoError(t, q.Register(handler.New("/after").WithStatus(http.StatusOK).MustBuild()))
	d := NewDispatcher(q, nil)

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/after", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, Stats{Dispatched: 2, Recovered: 1}, d.Stats())
}

func TestDispatcher_UnwritableStatusBecomes500(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	for _, status := range []int{42, http.StatusContinue} {
		require.NoError(t, q.Register(handler.Func(func(*http.Request) handler.Response {
			return handler.Response{StatusCode: status, Body: []byte("ignored")}
		})))
	}
	d := NewDispatcher(q, nil)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		assert.NotPanics(t, func() {
			d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Empty(t, rec.Body.String())
	}

	assert.Equal(t, Stats{Dispatched: 2, Recovered: 2}, d.Stats())
}

func TestDispatcher_DebugLogTruncatesBody(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON, Output: &buf})

	q := NewQueue()
	require.NoError(t, q.Register(handler.New("/big").
		WithStatus(http.StatusOK).
		WithBodyString(strings.Repeat("a", util.MaxLogBodySize+10)).
		MustBuild()))
	d := NewDispatcher(q, log)

	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/big", nil))

	assert.Len(t, rec.Body.String(), util.MaxLogBodySize+10)
	assert.Contains(t, buf.String(), `"msg":"request dispatched"`)
	assert.Contains(t, buf.String(), `"handler":"GET /big"`)
	assert.Contains(t, buf.String(), "...(truncated)")
}
