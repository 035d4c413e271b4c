package gcs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrObjectNotFound is returned when the requested object does not exist.
var ErrObjectNotFound = errors.New("gcs: object not found")

// Exists reports whether the named object is present in the default bucket.
func (c *Client) Exists(ctx context.Context, object string) (bool, error) {
	resp, err := c.do(ctx, http.MethodGet, c.metadataURL(object), nil, "")
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, c.statusError("gcs object stat", resp)
	}
}

// ReadAll downloads the full contents of the named object.
func (c *Client) ReadAll(ctx context.Context, object string) ([]byte, error) {
	u := fmt.Sprintf("%s?alt=media", c.metadataURL(object))
	resp, err := c.do(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return io.ReadAll(resp.Body)
	case http.StatusNotFound:
		return nil, ErrObjectNotFound
	default:
		return nil, c.statusError("gcs object read", resp)
	}
}

// Write uploads data to the named object, replacing any existing contents.
func (c *Client) Write(ctx context.Context, object string, data []byte, contentType string) error {
	u := fmt.Sprintf(
		"%s/upload/storage/v1/b/%s/o?uploadType=media&name=%s",
		storageEndpoint,
		url.PathEscape(c.defaultBucket),
		url.QueryEscape(object),
	)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := c.do(ctx, http.MethodPost, u, bytes.NewReader(data), contentType)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.statusError("gcs object upload", resp)
	}
	return nil
}

// Delete removes the named object; deleting a missing object is a no-op.
func (c *Client) Delete(ctx context.Context, object string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.metadataURL(object), nil, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound:
		return nil
	default:
		return c.statusError("gcs object delete", resp)
	}
}

// ListPrefix returns the names of all objects under the given prefix.
func (c *Client) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	pageToken := ""
	for {
		u := fmt.Sprintf(
			"%s/storage/v1/b/%s/o?prefix=%s",
			storageEndpoint,
			url.PathEscape(c.defaultBucket),
			url.QueryEscape(prefix),
		)
		if pageToken != "" {
			u += "&pageToken=" + url.QueryEscape(pageToken)
		}

		resp, err := c.do(ctx, http.MethodGet, u, nil, "")
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			err := c.statusError("gcs object list", resp)
			_ = resp.Body.Close()
			return nil, err
		}

		var page struct {
			Items []struct {
				Name string `json:"name"`
			} `json:"items"`
			NextPageToken string `json:"nextPageToken"`
		}
		decodeErr := json.NewDecoder(resp.Body).Decode(&page)
		_ = resp.Body.Close()
		if decodeErr != nil {
			return nil, decodeErr
		}

		for _, item := range page.Items {
			names = append(names, item.Name)
		}
		if page.NextPageToken == "" {
			return names, nil
		}
		pageToken = page.NextPageToken
	}
}

// ObjectURL returns the public URL of the named object.
func (c *Client) ObjectURL(object string) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", storageEndpoint, c.defaultBucket, object)
}

func (c *Client) metadataURL(object string) string {
	return fmt.Sprintf(
		"%s/storage/v1/b/%s/o/%s",
		storageEndpoint,
		url.PathEscape(c.defaultBucket),
		url.PathEscape(object),
	)
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, contentType string) (*http.Response, error) {
	if c == nil || c.tokenSource == nil {
		return nil, errors.New("gcs client not initialized")
	}

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return c.httpClient.Do(req)
}

func (c *Client) statusError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if len(b) > 0 {
		return fmt.Errorf("%s failed: %s: %s", op, resp.Status, strings.TrimSpace(string(b)))
	}
	return fmt.Errorf("%s failed: %s", op, resp.Status)
}
