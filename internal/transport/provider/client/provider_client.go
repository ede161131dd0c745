package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const RouteOrderStatus = "/api/v1/orders/%s"

const APIKeyHeader = "X-API-Key"

// Константы минимального и максимально значения в заголовке Retry-After.
const (
	minRetryAfter     = 1
	maxRetryAfter     = 120
	defaultRetryAfter = 60
)

// Response ответ провайдера по заказу. Status - сырая строка в словаре провайдера.
type Response struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

// HTTPClient HTTP клиент API провайдера дата-бандлов.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*HTTPClient)

// WithRateLimit ограничивает исходящие запросы к провайдеру: rps запросов в секунду с пиком burst.
// rps <= 0 снимает ограничение.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = httpClient
	}
}

func New(baseURL, apiKey string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrderStatus получает текущий статус заказа у провайдера по reference.
// При ответе сервера со статусом отличным от http.StatusOK, возвращает ошибку *StatusCodeError, или
// *TooManyRequestError в случае http.StatusTooManyRequests. Таймаут запроса задается через ctx.
//
//nolint:nonamedreturns
func (c *HTTPClient) GetOrderStatus(
	ctx context.Context,
	reference string,
) (response *Response, err error) {
	if waitErr := c.limiter.Wait(ctx); waitErr != nil {
		return nil, errors.Wrap(waitErr, "rate limit wait")
	}

	reqURL := c.baseURL + fmt.Sprintf(RouteOrderStatus, url.PathEscape(reference))

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if reqErr != nil {
		return nil, errors.Wrap(reqErr, "create request")
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, errors.Wrap(doErr, "do request")
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "close response body")
		}
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewTooManyRequestError(parseRetryAfter(resp.Header.Get("Retry-After")))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewStatusCodeError(resp.StatusCode)
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, errors.Wrap(readErr, "read response")
	}

	if jsonErr := json.Unmarshal(body, &response); jsonErr != nil {
		return nil, errors.Wrap(jsonErr, "parse response")
	}
	// пустой статус не ошибка транспорта: его как неизвестный разбирает словарь статусов.
	if response == nil {
		return nil, errors.New("parse response: empty body")
	}

	return response, nil
}

// parseRetryAfter разбирает Retry-After в секундах. Неверное или выходящее за [1, 120] значение
// заменяется на 60 секунд.
func parseRetryAfter(value string) time.Duration {
	minValue := decimal.NewFromInt(minRetryAfter)
	maxValue := decimal.NewFromInt(maxRetryAfter)

	retryAfter, parseErr := decimal.NewFromString(value)
	if parseErr != nil || retryAfter.LessThan(minValue) || retryAfter.GreaterThan(maxValue) {
		retryAfter = decimal.NewFromInt(defaultRetryAfter)
	}
	return time.Duration(retryAfter.IntPart()) * time.Second
}
