package main

import "testing"

func TestCommand(t *testing.T) {
	for _, name := range []string{"up", "down", "status"} {
		run, err := command(name)
		if err != nil {
			t.Errorf("command(%q) error = %v", name, err)
		}
		if run == nil {
			t.Errorf("command(%q) returned no runner", name)
		}
	}

	if _, err := command("redo"); err == nil {
		t.Error("command(\"redo\") should fail")
	}
}
