package annotate

import (
	"testing"

	"github.com/Mimouss56/wwsnb/internal/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		msg         types.Message
		currentUser string
		want        Annotation
	}{
		{
			name: "question tag",
			msg:  types.Message{Body: "@question when is the break?"},
			want: Annotation{Question: true},
		},
		{
			name:        "mention of current user",
			msg:         types.Message{Body: "ping @Alice Martin about this"},
			currentUser: "Alice Martin",
			want:        Annotation{Mention: true},
		},
		{
			name:        "no current user detected",
			msg:         types.Message{Body: "ping @Alice Martin"},
			currentUser: "",
			want:        Annotation{},
		},
		{
			name: "moderator flag",
			msg:  types.Message{Body: "welcome", Moderator: true},
			want: Annotation{Moderator: true},
		},
		{
			name:        "question and mention combine",
			msg:         types.Message{Body: "@question @Bob can you repeat?"},
			currentUser: "Bob",
			want:        Annotation{Question: true, Mention: true},
		},
		{
			name: "plain message",
			msg:  types.Message{Body: "nothing to see"},
			want: Annotation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.msg, tt.currentUser); got != tt.want {
				t.Errorf("Classify() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMarkerFirstSeen(t *testing.T) {
	m := NewMarker()
	if !m.FirstSeen("msg-1") {
		t.Error("first appearance reported as seen")
	}
	if m.FirstSeen("msg-1") {
		t.Error("second appearance reported as first")
	}

	m.Forget(map[string]bool{})
	if !m.FirstSeen("msg-1") {
		t.Error("forgotten id still marked seen")
	}
}
