package jobboard

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/intern-allocator/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"
)

type ItemResponse struct {
	Items   []Item
	Found   int
	Pages   int
	Page    int
	PerPage int `json:"per_page"`
}

type Item interface{}

// GetItems makes GET request to the job board API and returns items from all pages.
func (c *Client) GetItems(url string, q url.Values) ([]Item, error) {
	var items []Item

	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	// Additional headers. For GET requests only
	req.Header.Set("Content-Type", contentType)
	req.URL.RawQuery = q.Encode()

	resp, err := c.request(req)
	if err != nil {
		return nil, err
	}

	response, err := c.parseItemResponse(resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response from the job board", zap.Int("pages", response.Pages), zap.Int("max items per page", response.PerPage))

	items = append(items, response.Items...)

	for response.Page < (response.Pages - 1) {
		c.logger.Debug("additional request needed", zap.String("reason", fmt.Sprintf(
			"current page (%d) < all page count (%d)", response.Page+1, response.Pages),
		))

		resp, err = c.request(addPage(req, response.Page+1))
		if err != nil {
			return nil, err
		}

		response, err = c.parseItemResponse(resp)
		if err != nil {
			return nil, err
		}

		items = append(items, response.Items...)
	}

	return items, nil
}

func (c *Client) parseItemResponse(resp *http.Response) (*ItemResponse, error) {
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.ReadCloser
	var err error
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		body, err = gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer body.Close()
	default:
		body = resp.Body
		defer body.Close()
	}

	var response *ItemResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, err
	}

	return response, nil
}

// request performs the call, retrying transport errors and 5xx responses up
// to MaxRetries additional times with a growing backoff.
func (c *Client) request(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; ; attempt++ {
		c.logger.Debug("make request",
			zap.String("url", req.URL.String()),
			zap.Int("attempt", attempt+1),
		)

		resp, err = c.HTTPClient.Do(req)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}

		if attempt >= c.MaxRetries {
			break
		}

		if resp != nil {
			resp.Body.Close()
		}

		backoff := c.backoff * time.Duration(attempt+1)
		if werr := utils.WaitFor(c.ctx, backoff); werr != nil {
			return nil, werr
		}
	}

	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

// addPage adds page parameter to request URL.
func addPage(req *http.Request, page int) *http.Request {
	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = q.Encode()

	return req
}
