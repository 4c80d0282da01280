package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/soialite/soialite/codec"
	"github.com/soialite/soialite/registry"
)

func newUserServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(newUserService(t))
	t.Cleanup(server.Close)
	return server
}

func TestServeHTTP_Post(t *testing.T) {
	server := newUserServer(t)
	resp, err := http.Post(server.URL, "text/plain", strings.NewReader("GetUser:770621418::[42]"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("content type = %q", got)
	}
	body := readBody(t, resp)
	if body != `[42,"Jade"]` {
		t.Errorf("body = %s", body)
	}
}

func TestServeHTTP_GetQueryString(t *testing.T) {
	server := newUserServer(t)
	query := url.QueryEscape(`GetUser:770621418:readable:{"user_id": 42}`)
	resp, err := http.Get(server.URL + "?" + query)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, `"name": "Jade"`) {
		t.Errorf("body = %s", body)
	}
}

func TestServeHTTP_BinaryContentType(t *testing.T) {
	server := newUserServer(t)
	resp, err := http.Post(server.URL, "text/plain", strings.NewReader("GetUser:770621418:binary:[42]"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); got != "application/octet-stream" {
		t.Errorf("content type = %q", got)
	}
}

func TestServeHTTP_ErrorIsPlainText(t *testing.T) {
	server := newUserServer(t)
	resp, err := http.Post(server.URL, "text/plain", strings.NewReader("nope:1::[]"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("content type = %q", got)
	}
	if body := readBody(t, resp); body != "bad request: method not found: nope; number: 1" {
		t.Errorf("body = %s", body)
	}
}

func TestClient_Invoke(t *testing.T) {
	server := newUserServer(t)
	client := NewClient(nil, server.URL)
	body, err := client.Invoke(context.Background(), "GetUser:770621418::[42]")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `[42,"Jade"]` {
		t.Errorf("body = %s", body)
	}

	_, err = client.Invoke(context.Background(), "GetUser:770621418::[13]")
	if err == nil || !strings.Contains(err.Error(), "HTTP response status 500") {
		t.Errorf("err = %v", err)
	}
}

func TestInvokeRemote(t *testing.T) {
	server := newUserServer(t)
	client := NewClient(server.Client(), server.URL)

	reg := registry.NewRegistry()
	if _, err := reg.LoadTypeDescriptor([]byte(userDescriptorJSON)); err != nil {
		t.Fatal(err)
	}
	request, err := codec.NewSerializer(getUserMethod.Request, reg, codec.Config{})
	if err != nil {
		t.Fatal(err)
	}
	response, err := codec.NewSerializer(getUserMethod.Response, reg, codec.Config{})
	if err != nil {
		t.Fatal(err)
	}

	input := map[string]interface{}{"user_id": int64(42)}
	output, err := InvokeRemote(context.Background(), client, getUserMethod, request, response, input)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := output.(map[string]interface{})
	if !ok {
		t.Fatalf("output = %T", output)
	}
	if m["name"] != "Jade" || m["user_id"] != int64(42) {
		t.Errorf("output = %v", m)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}
