// Package remote loads and saves the document over HTTP and exports it to
// local files.
package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/bethropolis/modsed/internal/logger"
)

// DefaultTimeout bounds one request when none is configured.
const DefaultTimeout = 30 * time.Second

// ErrNoEndpoint is returned when the operation has no URL configured.
var ErrNoEndpoint = errors.New("no endpoint configured")

// Client talks to the load and save endpoints. Requests are never retried.
type Client struct {
	LoadURL string
	SaveURL string
	Timeout time.Duration

	httpClient *http.Client
}

// NewClient creates a client. Empty URLs disable the operation.
func NewClient(loadURL, saveURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		LoadURL:    loadURL,
		SaveURL:    saveURL,
		Timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// CanLoad reports whether a load endpoint is configured.
func (c *Client) CanLoad() bool { return c != nil && c.LoadURL != "" }

// CanSave reports whether a save endpoint is configured.
func (c *Client) CanSave() bool { return c != nil && c.SaveURL != "" }

// Load fetches the serialized document with GET.
func (c *Client) Load(ctx context.Context) (string, error) {
	if !c.CanLoad() {
		return "", ErrNoEndpoint
	}
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.LoadURL, nil)
	if err != nil {
		return "", &Error{Op: "load", Kind: KindClient, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Accept", "application/xml")

	body, err := c.do(ctx, "load", req)
	if err != nil {
		return "", err
	}
	logger.Infof("loaded %d bytes from %s", len(body), c.LoadURL)
	return string(body), nil
}

// Save sends body with PUT as application/xml.
func (c *Client) Save(ctx context.Context, body string) error {
	if !c.CanSave() {
		return ErrNoEndpoint
	}
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.SaveURL, bytes.NewReader([]byte(body)))
	if err != nil {
		return &Error{Op: "save", Kind: KindClient, Err: errors.Wrap(err, "build request")}
	}
	req.Header.Set("Content-Type", "application/xml")

	if _, err := c.do(ctx, "save", req); err != nil {
		return err
	}
	logger.Infof("saved %d bytes to %s", len(body), c.SaveURL)
	return nil
}

func (c *Client) do(ctx context.Context, op string, req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		e := transportError(ctx, op, err)
		logger.Warnf("%s %s: %v", req.Method, req.URL, e)
		return nil, e
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, op, errors.Wrap(err, "read body"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := statusError(op, resp.StatusCode)
		logger.Warnf("%s %s: %v", req.Method, req.URL, e)
		return nil, e
	}
	return body, nil
}

// Export writes data to path, replacing any existing file.
func Export(path string, data []byte) error {
	if path == "" {
		return errors.New("export: no path")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "export %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "export %s", path)
	}
	logger.Infof("exported %d bytes to %s", len(data), path)
	return nil
}
