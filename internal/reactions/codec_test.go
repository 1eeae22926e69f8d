package reactions

import (
	"reflect"
	"testing"

	"github.com/Mimouss56/wwsnb/internal/types"
)

func TestLedgerCodecRoundTrip(t *testing.T) {
	votes := types.ReactionSet{
		"msg-1": {"👍": {"Alice", "Bob"}},
		"msg-2": {"❤️": {"Carol"}},
	}

	data, err := marshalLedger(votes)
	if err != nil {
		t.Fatalf("marshalLedger: %v", err)
	}
	got, err := unmarshalLedger(data)
	if err != nil {
		t.Fatalf("unmarshalLedger: %v", err)
	}
	if !reflect.DeepEqual(got, votes) {
		t.Errorf("round trip = %v, want %v", got, votes)
	}
}

func TestUnmarshalRejectsUnknownSchemaVersion(t *testing.T) {
	if _, err := unmarshalLedger([]byte(`{"version":99,"reactions":{}}`)); err == nil {
		t.Error("unknown schema version should be rejected")
	}
}

func TestUnmarshalNilReactionsYieldsEmptySet(t *testing.T) {
	got, err := unmarshalLedger([]byte(`{"version":1}`))
	if err != nil {
		t.Fatalf("unmarshalLedger: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil set", got)
	}
}
