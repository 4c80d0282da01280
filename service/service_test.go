package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/soialite/soialite/codec"
	"github.com/soialite/soialite/reflection"
	"github.com/soialite/soialite/registry"
)

const userDescriptorJSON = `{
  "type": {"kind": "record", "value": "User:users.soia"},
  "records": [
    {
      "kind": "STRUCT",
      "id": "users.soia:User",
      "fields": [
        {"name": "user_id", "type": {"kind": "primitive", "value": "INT64"}},
        {"name": "name", "type": {"kind": "primitive", "value": "STRING"}, "number": 1}
      ]
    },
    {
      "kind": "STRUCT",
      "id": "users.soia:GetUserRequest",
      "fields": [
        {"name": "user_id", "type": {"kind": "primitive", "value": "INT64"}}
      ]
    }
  ]
}`

var getUserMethod = Method{
	Name:     "GetUser",
	Number:   770621418,
	Request:  reflection.RecordRef("users.soia:GetUserRequest"),
	Response: reflection.RecordRef("users.soia:User"),
}

// getUser resolves user 42 and fails on user 13, leaving everything else
// at the default.
func getUser(_ context.Context, input interface{}) (interface{}, error) {
	id, _ := input.(map[string]interface{})["user_id"].(int64)
	switch id {
	case 42:
		return map[string]interface{}{"user_id": int64(42), "name": "Jade"}, nil
	case 13:
		return nil, errors.New("user 13 is off limits")
	}
	return map[string]interface{}{}, nil
}

func newUserService(t *testing.T) *Service {
	t.Helper()
	reg := registry.NewRegistry()
	if _, err := reg.LoadTypeDescriptor([]byte(userDescriptorJSON)); err != nil {
		t.Fatal(err)
	}
	s := NewService(reg, codec.Config{})
	if err := s.RegisterMethod(getUserMethod, getUser); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestHandleRequest_Dispatch(t *testing.T) {
	s := newUserService(t)
	result := s.HandleRequest(context.Background(), "GetUser:770621418::[42]")
	if result.Status != 200 {
		t.Fatalf("status = %d, body = %s", result.Status, result.Body)
	}
	if string(result.Body) != `[42,"Jade"]` {
		t.Errorf("body = %s", result.Body)
	}

	// The name part is informational; dispatch is by number.
	result = s.HandleRequest(context.Background(), "foo:770621418::[42]")
	if result.Status != 200 {
		t.Errorf("status = %d, body = %s", result.Status, result.Body)
	}
}

func TestHandleRequest_Formats(t *testing.T) {
	s := newUserService(t)

	result := s.HandleRequest(context.Background(), "GetUser:770621418:readable:[42]")
	if result.Status != 200 {
		t.Fatalf("status = %d, body = %s", result.Status, result.Body)
	}
	expected := "{\n  \"user_id\": 42,\n  \"name\": \"Jade\"\n}"
	if string(result.Body) != expected {
		t.Errorf("body = %q, want %q", result.Body, expected)
	}

	result = s.HandleRequest(context.Background(), "GetUser:770621418:binary:[42]")
	if result.Status != 200 {
		t.Fatalf("status = %d, body = %s", result.Status, result.Body)
	}
	if !strings.HasPrefix(string(result.Body), "soia") {
		t.Errorf("binary body = %x", result.Body)
	}

	// Readable request data is accepted regardless of response format.
	result = s.HandleRequest(context.Background(), `GetUser:770621418::{"user_id": 42}`)
	if result.Status != 200 || string(result.Body) != `[42,"Jade"]` {
		t.Errorf("status = %d, body = %s", result.Status, result.Body)
	}
}

func TestHandleRequest_Errors(t *testing.T) {
	s := newUserService(t)
	tests := []struct {
		name       string
		request    string
		status     int
		bodyPrefix string
	}{
		{
			"malformed",
			"GetUser",
			400,
			"bad request: invalid request format",
		},
		{
			"bad_number",
			"GetUser:seven::[]",
			400,
			`bad request: can't parse method number: "seven"`,
		},
		{
			"unknown_method",
			"GetUser:123::[]",
			400,
			"bad request: method not found: GetUser; number: 123",
		},
		{
			"bad_request_data",
			"GetUser:770621418::{",
			400,
			"bad request: ",
		},
		{
			"handler_error",
			"GetUser:770621418::[13]",
			500,
			"server error: user 13 is off limits",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := s.HandleRequest(context.Background(), test.request)
			if result.Status != test.status {
				t.Errorf("status = %d, want %d", result.Status, test.status)
			}
			if !strings.HasPrefix(string(result.Body), test.bodyPrefix) {
				t.Errorf("body = %s, want prefix %q", result.Body, test.bodyPrefix)
			}
		})
	}
}

func TestHandleRequest_List(t *testing.T) {
	s := newUserService(t)
	result := s.HandleRequest(context.Background(), ListRequest)
	if result.Status != 200 {
		t.Fatalf("status = %d, body = %s", result.Status, result.Body)
	}
	body := string(result.Body)
	for _, want := range []string{
		"\"methods\": [",
		"\"method\": \"GetUser\"",
		"\"number\": 770621418",
		"\"id\": \"users.soia:GetUserRequest\"",
		"\"id\": \"users.soia:User\"",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("list output missing %q:\n%s", want, body)
		}
	}
}

func TestRegisterMethod_DuplicateNumber(t *testing.T) {
	s := newUserService(t)
	err := s.RegisterMethod(getUserMethod, getUser)
	if err == nil || !strings.Contains(err.Error(), "duplicate method number") {
		t.Errorf("err = %v", err)
	}
}

func TestRegisterMethod_UnknownType(t *testing.T) {
	s := newUserService(t)
	err := s.RegisterMethod(Method{
		Name:     "Bad",
		Number:   1,
		Request:  reflection.RecordRef("missing.soia:Missing"),
		Response: reflection.RecordRef("users.soia:User"),
	}, getUser)
	if err == nil {
		t.Error("expected an error for an unknown request type")
	}
}

func TestMethods(t *testing.T) {
	s := newUserService(t)
	methods := s.Methods()
	if len(methods) != 1 || methods[0].Name != "GetUser" {
		t.Errorf("Methods() = %v", methods)
	}
	if fmt.Sprintf("%d", methods[0].Number) != "770621418" {
		t.Errorf("number = %d", methods[0].Number)
	}
}
