package distance

import (
	"context"
	"delivery-pricing-service/internal/platform/httpretry"
	"fmt"
	"net/http"
	"net/url"
)

// newRequest builds a GET against path with the api key appended to params.
func (g *GoongDistanceProvider) newRequest(
	ctx context.Context,
	path string,
	params url.Values,
) (*http.Request, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("api_key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (g *GoongDistanceProvider) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	return httpretry.DoWithRetry(ctx, g.session, makeReq)
}
