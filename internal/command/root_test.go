package command

import "testing"

func TestResolveSession(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "default-session"},
		{"abc123", "abc123"},
		{"https://bbb.example.com/join?sessionToken=tok42", "tok42"},
		{"https://bbb.example.com/join", "default-session"},
	}

	for _, tt := range tests {
		if got := resolveSession(tt.raw); got != tt.want {
			t.Errorf("resolveSession(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestRootCmdHasChatSubcommand(t *testing.T) {
	root := NewRootCmd("test")
	found := false
	for _, sub := range root.Commands() {
		if sub.Name() == "chat" {
			found = true
		}
	}
	if !found {
		t.Error("root command is missing the chat subcommand")
	}
}
