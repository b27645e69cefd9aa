package main

import "testing"

func TestCommandArgValidation(t *testing.T) {
	if code := parseCommand(nil); code != 2 {
		t.Errorf("parse with no args = %d, want 2", code)
	}
	if code := parseCommand([]string{"1+1", "extra"}); code != 2 {
		t.Errorf("parse with extra args = %d, want 2", code)
	}
	if code := parseCommand([]string{"qwerty"}); code != 1 {
		t.Errorf("parse with bad formula = %d, want 1", code)
	}
	if code := parseCommand([]string{"(1+2)*3"}); code != 0 {
		t.Errorf("parse with good formula = %d, want 0", code)
	}
	if code := replCommand([]string{"unexpected"}); code != 2 {
		t.Errorf("repl with args = %d, want 2", code)
	}
	if code := serveCommand([]string{"-feed"}); code != 2 {
		t.Errorf("serve with dangling -feed = %d, want 2", code)
	}
}
