package webhooks

import (
	"reflect"
	"testing"
)

func TestSanitize_StripsSecretKeys(t *testing.T) {
	payload := map[string]interface{}{
		"workflowId": "wf1",
		"password":   "abc",
		"Secret":     "def",
		"TOKEN":      "ghi",
		"Api_Key":    "jkl",
		"data":       map[string]interface{}{"x": 1.0},
	}

	clean := Sanitize(payload)

	for _, key := range []string{"password", "Secret", "TOKEN", "Api_Key"} {
		if _, present := clean[key]; present {
			t.Errorf("expected key %q to be stripped", key)
		}
	}
	if clean["workflowId"] != "wf1" {
		t.Errorf("expected workflowId to survive, got %v", clean["workflowId"])
	}
	if _, present := payload["password"]; !present {
		t.Error("input payload should not be modified")
	}
}

func TestSanitize_Recursive(t *testing.T) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"user": map[string]interface{}{
				"name":     "alice",
				"password": "abc",
			},
		},
		"items": []interface{}{
			map[string]interface{}{"token": "t", "keep": true},
		},
	}

	clean := Sanitize(payload)

	user := clean["data"].(map[string]interface{})["user"].(map[string]interface{})
	if _, present := user["password"]; present {
		t.Error("nested password should be stripped")
	}
	if user["name"] != "alice" {
		t.Errorf("expected nested name to survive, got %v", user["name"])
	}

	item := clean["items"].([]interface{})[0].(map[string]interface{})
	if _, present := item["token"]; present {
		t.Error("token inside array element should be stripped")
	}
	if item["keep"] != true {
		t.Error("non-secret key inside array element should survive")
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	payload := map[string]interface{}{
		"password": "abc",
		"data":     map[string]interface{}{"secret": "x", "y": "z"},
	}

	once := Sanitize(payload)
	twice := Sanitize(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("sanitize not idempotent: %v vs %v", once, twice)
	}
}

func TestSanitize_NilPayload(t *testing.T) {
	if Sanitize(nil) != nil {
		t.Error("expected nil for nil payload")
	}
}
