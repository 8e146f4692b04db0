package myhttpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MarcGrol/fbloginbackend/lib/mylog"
)

const (
	timeout = 5 * time.Second
)

type HTTPSender interface {
	Send(c context.Context, method string, url string, body []byte) (int, []byte, error)
}

type jsonHTTPClient struct {
	client *http.Client
	logger mylog.Logger
}

// New returns a sender that expects json responses. A nil client gets a client with a default timeout.
func New(client *http.Client, logger mylog.Logger) HTTPSender {
	if client == nil {
		client = &http.Client{
			Timeout: timeout,
		}
	}
	return &jsonHTTPClient{
		client: client,
		logger: logger,
	}
}

func (hc jsonHTTPClient) Send(c context.Context, method string, url string, body []byte) (int, []byte, error) {
	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(c, method, url, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("error creating http request for %s %s: %s", method, url, err)
	}
	if bodyReader != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	httpReq.Header.Set("Accept", "application/json")

	hc.logger.Log(c, "", mylog.SeverityDebug, "HTTP request: %s %s", method, httpReq.URL.Path)

	httpResp, err := hc.client.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("error sending %s %s: %s", method, httpReq.URL.Path, err)
	}
	defer httpResp.Body.Close()

	respPayload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("error reading response %s %s: %s", method, httpReq.URL.Path, err)
	}

	hc.logger.Log(c, "", mylog.SeverityDebug, "HTTP response: %d", httpResp.StatusCode)

	return httpResp.StatusCode, respPayload, nil
}
