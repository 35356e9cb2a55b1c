package notifier

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"github.com/wickethq/fantasy-cricket/internal/platform/logging"
	"github.com/wickethq/fantasy-cricket/internal/platform/resilience"
)

type PushClientConfig struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Retries        int
	CircuitBreaker *resilience.CircuitBreaker
}

// PushClient delivers notifications to the downstream push gateway.
type PushClient struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	retries int
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

type pushRequest struct {
	DeviceToken string `json:"device_token"`
	Title       string `json:"title"`
	Body        string `json:"body"`
}

func NewPushClient(cfg PushClientConfig, logger *logging.Logger) (*PushClient, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid PUSH_BASE_URL")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &PushClient{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: timeout,
		retries: retries,
		breaker: cfg.CircuitBreaker,
		logger:  logger,
	}, nil
}

func (c *PushClient) Send(ctx context.Context, deviceToken, title, body string) error {
	if strings.TrimSpace(deviceToken) == "" {
		return errors.New("device token is required")
	}

	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return errors.Wrap(err, "push gateway")
		}
	}

	payload := bytebufferpool.Get()
	defer bytebufferpool.Put(payload)

	if err := sonic.ConfigDefault.NewEncoder(payload).Encode(pushRequest{
		DeviceToken: deviceToken,
		Title:       title,
		Body:        body,
	}); err != nil {
		return errors.Wrap(err, "encode push payload")
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		if lastErr = c.post(payload.Bytes()); lastErr == nil {
			if c.breaker != nil {
				c.breaker.RecordSuccess()
			}
			return nil
		}
		c.logger.WarnContext(ctx, "push send attempt failed", "attempt", attempt+1, "error", lastErr)
	}

	if c.breaker != nil {
		c.breaker.RecordFailure()
	}
	return errors.Wrap(lastErr, "send push notification")
}

func (c *PushClient) post(payload []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "/v1/push")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.SetBody(payload)

	if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
		return errors.Wrap(err, "push gateway request")
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		detail := strings.TrimSpace(string(resp.Body()))
		if len(detail) > 512 {
			detail = detail[:512]
		}
		return errors.Newf("push gateway status=%d body=%s", status, detail)
	}
	return nil
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", errors.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", errors.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", errors.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}
