package airalo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/donaldgifford/esim-device-finder/internal/metrics"
)

// maxBodyBytes bounds how much of an upstream response is read. The full
// device catalog is well under this.
const maxBodyBytes = 16 << 20

type upstreamResponse struct {
	status int
	body   []byte
}

// roundTrip waits on the limiter, executes req and reads the body. Any
// error it returns is a transport failure.
func roundTrip(
	ctx context.Context,
	client *http.Client,
	limiter *RateLimiter,
	endpoint string,
	req *http.Request,
) (*upstreamResponse, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	metrics.UpstreamRequestDuration.
		WithLabelValues(endpoint).
		Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("executing %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.
		WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).
		Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	return &upstreamResponse{status: resp.StatusCode, body: body}, nil
}
