package api_test

import (
	"net/http"
	"testing"
)

type stackResult struct {
	StackedPrompts string `json:"stacked_prompts"`
}

const (
	posingText    = "a person posing with a camera, professional photography pose, confident stance"
	cinematicText = "cinematic lighting, dramatic shadows, film grain, professional cinematography"
)

func TestStackSlotsList(t *testing.T) {
	env := newTestEnv(t)

	var got stackResult
	body := `{"slots":[
		{"index":2,"category":"styles","name":"cinematic"},
		{"index":1,"category":"poses","name":"posing with camera","enabled":true}
	]}`
	if code := postJSON(t, env, "/prompt_db_stack", body, &got); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if want := posingText + ", " + cinematicText; got.StackedPrompts != want {
		t.Fatalf("expected %q, got %q", want, got.StackedPrompts)
	}
}

func TestStackFlatFields(t *testing.T) {
	env := newTestEnv(t)

	var got stackResult
	body := `{
		"separator": " | ",
		"prompt_5_category": "styles", "prompt_5_name": "cinematic",
		"prompt_2_category": "poses", "prompt_2_name": "posing with camera",
		"prompt_3_category": "quality", "prompt_3_name": "photorealistic", "prompt_3_enabled": false
	}`
	postJSON(t, env, "/prompt_db_stack", body, &got)
	if want := posingText + " | " + cinematicText; got.StackedPrompts != want {
		t.Fatalf("expected %q, got %q", want, got.StackedPrompts)
	}
}

func TestStackNothingResolvable(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{
		``,
		`{}`,
		`{"slots":[{"index":1,"category":"nope","name":"nope"}]}`,
		`{"slots":[{"index":1,"category":"poses","name":"casual sitting","enabled":false}]}`,
	} {
		got := stackResult{StackedPrompts: "sentinel"}
		if code := postJSON(t, env, "/prompt_db_stack", body, &got); code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", body, code)
		}
		if got.StackedPrompts != "" {
			t.Fatalf("%q: expected empty result, got %q", body, got.StackedPrompts)
		}
	}
}

func TestStackEmptySeparator(t *testing.T) {
	env := newTestEnv(t)
	postJSON(t, env, "/prompt_db_save", `{"category":"t","prompt_name":"a","prompt_text":"A"}`, nil)
	postJSON(t, env, "/prompt_db_save", `{"category":"t","prompt_name":"b","prompt_text":"B"}`, nil)

	var got stackResult
	postJSON(t, env, "/prompt_db_stack", `{"separator":"","slots":[{"index":2,"category":"t","name":"a"},{"index":1,"category":"t","name":"b"}]}`, &got)
	if got.StackedPrompts != "BA" {
		t.Fatalf("expected %q, got %q", "BA", got.StackedPrompts)
	}
}

func TestStackBadJSON(t *testing.T) {
	env := newTestEnv(t)
	var got stackResult
	if code := postJSON(t, env, "/prompt_db_stack", `{"slots":"nope"}`, &got); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
