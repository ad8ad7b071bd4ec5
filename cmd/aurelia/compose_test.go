package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("execute %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestComposeCommand(t *testing.T) {
	out := execute(t, "compose",
		"--feeling", "desperate and hopeless",
		"--challenge", "financial crisis",
		"--religion", "catholic",
		"--time-of-day", "night",
		"--seed", "7")

	for _, want := range []string{
		"Category:   crisis (urgent, medium, calm_reassurance)",
		"Religion:   catholic",
		"Time:       night",
		"--- system ---",
		"--- user ---",
		"financial crisis",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestComposeCommandJSON(t *testing.T) {
	out := execute(t, "compose", "--religion", "zoroastrian", "--time-of-day", "evening", "--json")

	var got struct {
		Religion string
		Context  struct {
			Category string `json:"category"`
		}
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Religion != "interfaith" || got.Context.Category != "general" {
		t.Errorf("composition = %+v", got)
	}
}

func TestComposeCommandBadTables(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"compose", "--tables", t.TempDir()})
	if err := root.Execute(); err == nil {
		t.Error("compose with empty tables dir succeeded")
	}
}
