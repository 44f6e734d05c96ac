package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Result is the outcome of a single probe attempt. A transport-level failure
// leaves StatusCode at 0 and carries the error text in ErrorMessage; an HTTP
// error status keeps the code and a formatted ErrorMessage. Either way
// ResponseTimeMs covers the full attempt.
type Result struct {
	StatusCode     int
	StatusText     string
	ResponseTimeMs int
	IsUp           bool
	ErrorMessage   string
}

type Prober struct {
	client    *http.Client
	userAgent string
}

func NewProber(timeout time.Duration, userAgent string) *Prober {
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
	}
}

// Probe issues a single GET against url. One attempt per cycle, no retries;
// a failure is recorded in the Result, never returned as an error.
func (p *Prober) Probe(ctx context.Context, url string) Result {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{
			ResponseTimeMs: int(time.Since(start).Milliseconds()),
			ErrorMessage:   err.Error(),
		}
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	elapsed := int(time.Since(start).Milliseconds())
	if err != nil {
		return Result{
			ResponseTimeMs: elapsed,
			ErrorMessage:   err.Error(),
		}
	}
	defer resp.Body.Close()

	result := Result{
		StatusCode:     resp.StatusCode,
		StatusText:     http.StatusText(resp.StatusCode),
		ResponseTimeMs: elapsed,
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.IsUp = true
	} else {
		result.ErrorMessage = fmt.Sprintf("Server responded with status: %d %s",
			resp.StatusCode, result.StatusText)
	}

	return result
}
