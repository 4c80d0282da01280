// Package service dispatches method calls carried over HTTP or any
// transport that can deliver a request string and return a response
// string.
//
// A request string has four colon-separated parts:
//
//	<method name>:<method number>:<response format>:<request data>
//
// Dispatch is by number; the name is informational. The response format
// is "readable", "binary", or empty for dense JSON. The special request
// string "list" returns a JSON description of every method.
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/soialite/soialite/codec"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/registry"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ListRequest is the request string that lists the methods of a service.
const ListRequest = "list"

// Method identifies one operation of a service.
type Method struct {
	Name     string
	Number   int32
	Request  reflection.Type
	Response reflection.Type
}

// HandlerFunc implements one method. The input value uses the dynamic
// representation of the request type; the returned value must match the
// response type.
type HandlerFunc func(ctx context.Context, input interface{}) (interface{}, error)

type boundMethod struct {
	method   Method
	request  *codec.Serializer
	response *codec.Serializer
	handler  HandlerFunc
}

// Service routes request strings to registered method handlers.
type Service struct {
	registry *registry.Registry
	cfg      codec.Config
	byNumber map[int32]*boundMethod
	inOrder  []*boundMethod
}

// NewService creates a service whose method types resolve against reg.
func NewService(reg *registry.Registry, cfg codec.Config) *Service {
	return &Service{
		registry: reg,
		cfg:      cfg,
		byNumber: make(map[int32]*boundMethod),
	}
}

// RegisterMethod binds a handler to a method. Method numbers must be
// unique within a service.
func (s *Service) RegisterMethod(m Method, h HandlerFunc) error {
	if _, ok := s.byNumber[m.Number]; ok {
		return fmt.Errorf("duplicate method number: %d", m.Number)
	}
	request, err := codec.NewSerializer(m.Request, s.registry, s.cfg)
	if err != nil {
		return fmt.Errorf("method %s: request type: %w", m.Name, err)
	}
	response, err := codec.NewSerializer(m.Response, s.registry, s.cfg)
	if err != nil {
		return fmt.Errorf("method %s: response type: %w", m.Name, err)
	}
	bound := &boundMethod{method: m, request: request, response: response, handler: h}
	s.byNumber[m.Number] = bound
	s.inOrder = append(s.inOrder, bound)
	return nil
}

// Methods returns the registered methods in registration order.
func (s *Service) Methods() []Method {
	out := make([]Method, len(s.inOrder))
	for i, bound := range s.inOrder {
		out[i] = bound.method
	}
	return out
}

// Result is the outcome of handling one request string. Status is an HTTP
// status code; Body carries the response data or, for errors, a plain
// text message.
type Result struct {
	Status int
	Body   []byte
}

func badRequest(format string, args ...interface{}) Result {
	return Result{Status: 400, Body: []byte("bad request: " + fmt.Sprintf(format, args...))}
}

func serverError(err error) Result {
	return Result{Status: 500, Body: []byte("server error: " + err.Error())}
}

// HandleRequest routes one request string to its method handler.
func (s *Service) HandleRequest(ctx context.Context, requestData string) Result {
	if requestData == ListRequest {
		body, err := s.methodListJSON()
		if err != nil {
			return serverError(err)
		}
		return Result{Status: 200, Body: body}
	}
	name, number, format, data, err := splitRequestData(requestData)
	if err != nil {
		return badRequest("%v", err)
	}
	bound, ok := s.byNumber[number]
	if !ok {
		return badRequest("method not found: %s; number: %d", name, number)
	}
	input, err := bound.request.Parse([]byte(data))
	if err != nil {
		return badRequest("%v", err)
	}
	output, err := bound.handler(ctx, input)
	if err != nil {
		return serverError(err)
	}
	var body []byte
	switch format {
	case "readable":
		body, err = bound.response.ToReadableJSON(output)
	case "binary":
		body, err = bound.response.ToBytes(output)
	default:
		body, err = bound.response.ToDenseJSON(output)
	}
	if err != nil {
		return serverError(err)
	}
	return Result{Status: 200, Body: body}
}

// splitRequestData splits "name:number:format:data". The data part may
// itself contain colons.
func splitRequestData(requestData string) (name string, number int32, format, data string, err error) {
	parts := strings.SplitN(requestData, ":", 4)
	if len(parts) != 4 {
		return "", 0, "", "", fmt.Errorf("invalid request format")
	}
	n, parseErr := strconv.ParseInt(parts[1], 10, 32)
	if parseErr != nil {
		return "", 0, "", "", fmt.Errorf("can't parse method number: %q", parts[1])
	}
	return parts[0], int32(n), parts[2], parts[3], nil
}

type methodDescriptorJSON struct {
	Method   string                     `json:"method"`
	Number   int32                      `json:"number"`
	Request  *reflection.TypeDescriptor `json:"request"`
	Response *reflection.TypeDescriptor `json:"response"`
}

type methodListJSON struct {
	Methods []methodDescriptorJSON `json:"methods"`
}

func (s *Service) methodListJSON() ([]byte, error) {
	list := methodListJSON{Methods: []methodDescriptorJSON{}}
	for _, bound := range s.inOrder {
		request, err := s.registry.DescriptorForType(bound.method.Request)
		if err != nil {
			return nil, err
		}
		response, err := s.registry.DescriptorForType(bound.method.Response)
		if err != nil {
			return nil, err
		}
		list.Methods = append(list.Methods, methodDescriptorJSON{
			Method:   bound.method.Name,
			Number:   bound.method.Number,
			Request:  request,
			Response: response,
		})
	}
	compact, err := jsonAPI.Marshal(list)
	if err != nil {
		return nil, err
	}
	out, err := reflection.IndentJSON(compact)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
