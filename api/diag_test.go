package api_test

import (
	"net/http"
	"os"
	"testing"
)

func TestClientLogAppends(t *testing.T) {
	env := newTestEnv(t)

	var res struct{ Success bool }
	if code := postJSON(t, env, "/pylog", `{"msg":"widget created"}`, &res); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !res.Success {
		t.Fatal("expected success")
	}
	postJSON(t, env, "/pylog", `{"msg":"second"}`, &res)

	data, err := os.ReadFile(env.diagLog)
	if err != nil {
		t.Fatalf("read diag log: %v", err)
	}
	if string(data) != "[JS] widget created\n[JS] second\n" {
		t.Fatalf("unexpected diag log %q", data)
	}
}

func TestClientLogBadJSON(t *testing.T) {
	env := newTestEnv(t)

	var res struct {
		Success bool
		Error   string
	}
	if code := postJSON(t, env, "/pylog", `{"msg":`, &res); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if res.Success || res.Error == "" {
		t.Fatalf("unexpected result %+v", res)
	}
}
