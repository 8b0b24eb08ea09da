// Package relay forwards captured leads to the third-party form relay.
package relay

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"catalogue-service/config"
	"catalogue-service/internal/navigation"
	"catalogue-service/internal/util"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Form field names expected by the relay
const (
	FieldFullName = "fi-text-fullName"
	FieldCompany  = "fi-text-company"
	FieldEmail    = "fi-text-email"
)

// ErrRejected is returned when the relay answers with a non-2xx status
var ErrRejected = errors.New("relay rejected submission")

// Client posts lead forms with retries
type Client struct {
	http   *retryablehttp.Client
	url    string
	logger *zap.Logger
}

// NewClient creates a relay client from config
func NewClient(cfg config.RelayConfig) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = cfg.RetryMax
	if cfg.Timeout > 0 {
		retryClient.HTTPClient.Timeout = cfg.Timeout
	}

	return &Client{
		http:   retryClient,
		url:    strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.FormID,
		logger: util.GetLogger(),
	}
}

// URL is the submission target
func (c *Client) URL() string {
	return c.url
}

// Submit sends the three contact fields as multipart form data
func (c *Client) Submit(ctx context.Context, info navigation.UserInfo) error {
	ctx, span := util.StartSpan(ctx, "RelayClient.Submit")
	defer span.End()

	body, contentType, err := encodeForm(info)
	if err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return fmt.Errorf("failed to build relay request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.http.Do(req)
	util.LeadRelayLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		util.LeadRelayFailuresTotal.WithLabelValues("transport").Inc()
		return fmt.Errorf("failed to submit lead: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		util.LeadRelayFailuresTotal.WithLabelValues("status").Inc()
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	util.LeadRelaySubmittedTotal.Inc()
	c.logger.Info("Lead submitted to relay", zap.Int("status", resp.StatusCode))
	return nil
}

func encodeForm(info navigation.UserInfo) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{FieldFullName, info.FullName},
		{FieldCompany, info.Company},
		{FieldEmail, info.Email},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
