// Package storage holds the wire format shared by the durable snapshot
// backends. Each backend keeps one value per namespace.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/PabloGalante/spiralite/internal/domain"
)

// DefaultNamespace is the key the journal is stored under.
const DefaultNamespace = "spiralite-dreams"

// EnvelopeVersion is written with every snapshot.
const EnvelopeVersion = 0

type envelope struct {
	State   domain.Snapshot `json:"state"`
	Version int             `json:"version"`
}

// Encode renders snap as {"state":{...},"version":0}.
func Encode(snap domain.Snapshot) ([]byte, error) {
	if snap.Dreams == nil {
		snap.Dreams = []domain.Dream{}
	}
	b, err := json.Marshal(envelope{State: snap, Version: EnvelopeVersion})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode accepts the versioned envelope or a bare {"dreams":[...]} object.
// Empty input decodes to an empty snapshot.
func Decode(data []byte) (domain.Snapshot, error) {
	if len(data) == 0 {
		return domain.Snapshot{}, nil
	}
	if !gjson.ValidBytes(data) {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: invalid JSON")
	}

	state := data
	if st := gjson.GetBytes(data, "state"); st.Exists() {
		if !st.IsObject() {
			return domain.Snapshot{}, fmt.Errorf("decode snapshot: state is not an object")
		}
		state = []byte(st.Raw)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(state, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	normalizeDreamTypes(snap.Dreams)
	return snap, nil
}

// normalizeDreamTypes rewrites slug-typed records ("lucid") to their
// canonical label. Unrecognised values are left as they are.
func normalizeDreamTypes(dreams []domain.Dream) {
	for i := range dreams {
		if dreams[i].DreamType == "" || dreams[i].DreamType.Valid() {
			continue
		}
		if t, ok := domain.DreamTypeFromSlug(string(dreams[i].DreamType)); ok {
			dreams[i].DreamType = t
		}
	}
}
