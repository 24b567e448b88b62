package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reqIDA = "0123456789abcdef0123456789abcdef"

func newIdempServer(t *testing.T) (*echo.Echo, *int64) {
	t.Helper()
	srv, err := miniredis.Run()
	if err != nil {
		t.Skipf("skip: miniredis unavailable: %v", err)
	}
	t.Cleanup(srv.Close)

	cli := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = cli.Close() })

	var hits int64
	e := echo.New()
	e.Use(Idempotency(cli, time.Minute))
	e.POST("/loan/apply", func(c echo.Context) error {
		atomic.AddInt64(&hits, 1)
		return c.JSON(http.StatusOK, map[string]any{"ok": true, "n": atomic.LoadInt64(&hits)})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return e, &hits
}

func post(e *echo.Echo, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/loan/apply", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency_GetPassesThrough(t *testing.T) {
	e, _ := newIdempServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIdempotency_RequiresRequestID(t *testing.T) {
	e, hits := newIdempServer(t)

	rec := post(e, `{"user_id":"u1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ax-Request-Id")

	rec = post(e, `{"user_id":"u1"}`, map[string]string{"Ax-Request-Id": "not-a-valid-id"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.EqualValues(t, 0, atomic.LoadInt64(hits))
}

func TestIdempotency_RequiresUserID(t *testing.T) {
	e, hits := newIdempServer(t)
	rec := post(e, `{"loan_id":"x"}`, map[string]string{"Ax-Request-Id": reqIDA})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "user_id")
	assert.EqualValues(t, 0, atomic.LoadInt64(hits))
}

func TestIdempotency_ReplaysCompletedResponse(t *testing.T) {
	e, hits := newIdempServer(t)
	h := map[string]string{"Ax-Request-Id": reqIDA}

	first := post(e, `{"user_id":"u1"}`, h)
	require.Equal(t, http.StatusOK, first.Code)
	require.EqualValues(t, 1, atomic.LoadInt64(hits))

	second := post(e, `{"user_id":"u1"}`, h)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	// handler must not run again
	assert.EqualValues(t, 1, atomic.LoadInt64(hits))
}

func TestIdempotency_ConflictOnDifferentBody(t *testing.T) {
	e, hits := newIdempServer(t)
	h := map[string]string{"Ax-Request-Id": reqIDA}

	rec := post(e, `{"user_id":"u1","loan_amount":100}`, h)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = post(e, `{"user_id":"u1","loan_amount":999}`, h)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.EqualValues(t, 1, atomic.LoadInt64(hits))
}

func TestIdempotency_DistinctUsersDoNotCollide(t *testing.T) {
	e, hits := newIdempServer(t)
	h := map[string]string{"Ax-Request-Id": reqIDA}

	rec := post(e, `{"user_id":"u1"}`, h)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = post(e, `{"user_id":"u2"}`, h)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, atomic.LoadInt64(hits))
}

func TestIdempotency_SkewedRequestAtRejected(t *testing.T) {
	e, hits := newIdempServer(t)
	rec := post(e, `{"user_id":"u1"}`, map[string]string{
		"Ax-Request-Id": reqIDA,
		"Ax-Request-At": time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "skewed")
	assert.EqualValues(t, 0, atomic.LoadInt64(hits))
}

func TestParseAxRequestAt(t *testing.T) {
	cases := []struct {
		in     string
		wantOK bool
	}{
		{"1736123456", true},
		{"1736123456789", true},
		{"2025-09-05T10:00:00Z", true},
		{"2025-09-05T10:00:00+07:00", true},
		{"2025-09-05 10:00:00", false}, // naive local timestamp
		{"", false},
	}
	for _, tc := range cases {
		_, err := parseAxRequestAt(tc.in)
		if tc.wantOK {
			assert.NoError(t, err, tc.in)
		} else {
			assert.Error(t, err, tc.in)
		}
	}
}
