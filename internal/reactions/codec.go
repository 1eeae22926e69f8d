package reactions

import (
	"encoding/json"
	"fmt"

	"github.com/Mimouss56/wwsnb/internal/types"
)

// schemaVersion guards the persisted and broadcast ledger format.
const schemaVersion = 1

// KindUpdateReactions identifies a ledger broadcast on the channel.
const KindUpdateReactions = "update_reactions"

// payload is the serialized ledger, stored under the session key and
// carried inside broadcast envelopes.
type payload struct {
	Version   int               `json:"version"`
	Reactions types.ReactionSet `json:"reactions"`
}

// envelope frames a channel message. Sender lets a tab ignore its own
// broadcasts, mirroring the platform channel's no-self-delivery rule.
type envelope struct {
	Kind      string          `json:"kind"`
	Sender    string          `json:"sender,omitempty"`
	Reactions json.RawMessage `json:"reactions"`
}

func marshalLedger(votes types.ReactionSet) ([]byte, error) {
	return json.Marshal(payload{Version: schemaVersion, Reactions: votes})
}

func unmarshalLedger(data []byte) (types.ReactionSet, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode reactions payload: %w", err)
	}
	if p.Version != schemaVersion {
		return nil, fmt.Errorf("unsupported reactions schema version %d", p.Version)
	}
	if p.Reactions == nil {
		return types.ReactionSet{}, nil
	}
	return p.Reactions, nil
}

func marshalEnvelope(sender string, serialized []byte) ([]byte, error) {
	return json.Marshal(envelope{
		Kind:      KindUpdateReactions,
		Sender:    sender,
		Reactions: serialized,
	})
}
