package jsonrpc

import (
	"encoding/json"
	"testing"
)

func TestParseRequest(t *testing.T) {
	req, rpcErr := ParseRequest([]byte(`{"jsonrpc":"2.0","id":7,"method":"tools/list"}`))
	if rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}
	if req.Method != "tools/list" {
		t.Errorf("Expected method tools/list, got %s", req.Method)
	}
	if req.IsNotification() {
		t.Error("Expected a call, got a notification")
	}
	if string(req.ID) != "7" {
		t.Errorf("Expected id 7, got %s", req.ID)
	}
}

func TestParseRequest_Notification(t *testing.T) {
	req, rpcErr := ParseRequest([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	if rpcErr != nil {
		t.Fatalf("Unexpected error: %v", rpcErr)
	}
	if !req.IsNotification() {
		t.Error("Expected a notification")
	}
}

func TestParseRequest_Errors(t *testing.T) {
	cases := map[string]struct {
		body string
		code ErrorCode
	}{
		"malformed":     {`{"jsonrpc":`, ParseError},
		"wrong version": {`{"jsonrpc":"1.0","id":1,"method":"ping"}`, InvalidRequest},
		"no method":     {`{"jsonrpc":"2.0","id":1}`, InvalidRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, rpcErr := ParseRequest([]byte(tc.body))
			if rpcErr == nil {
				t.Fatal("Expected error")
			}
			if rpcErr.Code != tc.code {
				t.Errorf("Expected code %d, got %d", tc.code, rpcErr.Code)
			}
		})
	}
}

func TestResponses(t *testing.T) {
	data, err := json.Marshal(NewResult(json.RawMessage(`"abc"`), map[string]string{"ok": "yes"}))
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(data) != `{"jsonrpc":"2.0","id":"abc","result":{"ok":"yes"}}` {
		t.Errorf("Unexpected result encoding: %s", data)
	}

	data, err = json.Marshal(NewErrorResponse(nil, NewError(MethodNotFound, "Method not found", nil)))
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if string(data) != `{"jsonrpc":"2.0","id":null,"error":{"code":-32601,"message":"Method not found"}}` {
		t.Errorf("Unexpected error encoding: %s", data)
	}
}
