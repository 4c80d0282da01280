package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/soialite/soialite/codec"
)

// contentTypeFor picks the response media type: binary responses carry
// the standalone binary prefix, everything else is JSON text.
func contentTypeFor(body []byte) string {
	if len(body) >= 4 && string(body[:4]) == "soia" {
		return "application/octet-stream"
	}
	return "application/json"
}

// ServeHTTP serves the request string from the query string of a GET or
// the body of a POST, so a service can be mounted on any mux.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestData, err := requestDataOf(r)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(400)
		fmt.Fprintf(w, "bad request: %v", err)
		return
	}
	result := s.HandleRequest(r.Context(), requestData)
	if result.Status != 200 {
		w.Header().Set("Content-Type", "text/plain")
	} else {
		w.Header().Set("Content-Type", contentTypeFor(result.Body))
	}
	w.WriteHeader(result.Status)
	w.Write(result.Body)
}

func requestDataOf(r *http.Request) (string, error) {
	if r.Method == http.MethodGet {
		unescaped, err := url.QueryUnescape(r.URL.RawQuery)
		if err != nil {
			return "", fmt.Errorf("can't unescape query string: %v", err)
		}
		return unescaped, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", fmt.Errorf("can't read request body: %v", err)
	}
	return string(body), nil
}

// Client invokes methods of a remote service over HTTP.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a client that posts request strings to serviceURL.
func NewClient(httpClient *http.Client, serviceURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, url: serviceURL}
}

// Invoke sends one request string and returns the response body. Non-200
// responses become errors carrying the response body as the message.
func (c *Client) Invoke(ctx context.Context, requestData string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(requestData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("HTTP response status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}

// InvokeRemote calls one method of a remote service: the input is encoded
// as dense JSON and the decoded output is returned. The serializers must
// match the method's request and response types.
func InvokeRemote(ctx context.Context, c *Client, m Method, request, response *codec.Serializer, input interface{}) (interface{}, error) {
	data, err := request.ToDenseJSON(input)
	if err != nil {
		return nil, err
	}
	requestData := fmt.Sprintf("%s:%d::%s", m.Name, m.Number, data)
	body, err := c.Invoke(ctx, requestData)
	if err != nil {
		return nil, err
	}
	return response.Parse(body)
}
