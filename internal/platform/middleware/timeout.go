package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestTimeout puts a deadline on each request context and answers 504 if
// the handler has not returned by then.
//
// The handler runs on its own echo.Context whose response is buffered. The
// buffer is copied to the client only when the handler finishes in time, so a
// handler that outlives the deadline never writes to the pooled context or
// the real ResponseWriter.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if timeout <= 0 {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			tw := &timeoutWriter{header: c.Response().Header().Clone()}
			tc := c.Echo().NewContext(c.Request().WithContext(ctx), tw)
			tc.SetPath(c.Path())
			tc.SetParamNames(c.ParamNames()...)
			tc.SetParamValues(c.ParamValues()...)
			tc.Set(requestIDKey, c.Get(requestIDKey))

			done := make(chan handlerResult, 1)
			go func() {
				defer func() {
					if p := recover(); p != nil {
						done <- handlerResult{panicked: true, panicValue: p}
					}
				}()
				done <- handlerResult{err: next(tc)}
			}()

			select {
			case res := <-done:
				if res.panicked {
					panic(res.panicValue)
				}
				tw.flushTo(c.Response())
				return res.err
			case <-ctx.Done():
				tw.expire()
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return echo.NewHTTPError(http.StatusGatewayTimeout, "request timed out")
				}
				return ctx.Err()
			}
		}
	}
}

type handlerResult struct {
	err        error
	panicked   bool
	panicValue interface{}
}

// timeoutWriter buffers a handler's response until RequestTimeout decides
// whether it reaches the client. Writes after expire fail with
// http.ErrHandlerTimeout.
type timeoutWriter struct {
	header http.Header

	mu       sync.Mutex
	buf      bytes.Buffer
	code     int
	timedOut bool
}

func (tw *timeoutWriter) Header() http.Header { return tw.header }

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.code != 0 {
		return
	}
	tw.code = code
}

func (tw *timeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if tw.code == 0 {
		tw.code = http.StatusOK
	}
	return tw.buf.Write(p)
}

func (tw *timeoutWriter) expire() {
	tw.mu.Lock()
	tw.timedOut = true
	tw.mu.Unlock()
}

// flushTo copies the buffered headers, status and body to res. It must only
// be called once the handler has returned.
func (tw *timeoutWriter) flushTo(res *echo.Response) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	dst := res.Header()
	for k, v := range tw.header {
		dst[k] = v
	}
	if tw.code == 0 {
		return
	}
	res.WriteHeader(tw.code)
	_, _ = res.Write(tw.buf.Bytes())
}
