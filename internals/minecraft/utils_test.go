package minecraft

import (
	"encoding/json"
	"testing"
)

func TestStringSlice(t *testing.T) {
	var s stringSlice
	err := json.Unmarshal([]byte(`["a", "b"]`), &s)
	if err != nil {
		t.Fatal(err)
	}
	if s.String() != "a b" {
		t.Fatalf("Expected 'a b', got '%s'", s.String())
	}

	err = json.Unmarshal([]byte(`"a b"`), &s)
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 1 || s[0] != "a b" {
		t.Fatalf("Expected single value 'a b', got %#v", s)
	}
}

func TestArgument_roundTrip(t *testing.T) {
	input := `["--username",{"rules":[{"action":"allow","features":{"is_demo_user":true}}],"value":"--demo"}]`

	var args []Argument
	if err := json.Unmarshal([]byte(input), &args); err != nil {
		t.Fatal(err)
	}
	if len(args) != 2 {
		t.Fatalf("Expected 2 arguments, got %d", len(args))
	}
	if !args[0].IsPlain() || args[0].Value[0] != "--username" {
		t.Errorf("first argument should be plain --username, got %#v", args[0])
	}
	if args[1].IsPlain() || len(args[1].Rules) != 1 {
		t.Errorf("second argument should carry one rule, got %#v", args[1])
	}

	out, err := json.Marshal(args)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != input {
		t.Errorf("Expected %s\n got %s", input, out)
	}
}
