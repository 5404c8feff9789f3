package llm

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PabloGalante/spiralite/internal/domain"
)

// MockClient answers every request locally with a well-formed JSON
// interpretation. Used in local mode and tests.
type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

type mockReply struct {
	Name           string `json:"name"`
	DreamType      string `json:"dreamType"`
	Rationale      string `json:"rationale"`
	Interpretation string `json:"interpretation"`
}

var mockHints = []struct {
	keyword string
	typ     domain.DreamType
}{
	{"lucid", domain.DreamTypeLucid},
	{"childhood", domain.DreamTypeMnemonic},
	{"memory", domain.DreamTypeMnemonic},
	{"future", domain.DreamTypePreEcho},
	{"recursive", domain.DreamTypeMetaLucid},
}

// Complete implements domain.Completer.
func (m *MockClient) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &domain.NetworkError{Reason: "mock completion cancelled", Err: err}
	}

	var user string
	for _, msg := range messages {
		if msg.Role == domain.RoleUser {
			user = msg.Content
		}
	}

	typ := domain.DefaultDreamType
	lower := strings.ToLower(user)
	for _, h := range mockHints {
		if strings.Contains(lower, h.keyword) {
			typ = h.typ
			break
		}
	}

	reply := mockReply{
		Name:           "A Mock Reverie",
		DreamType:      string(typ),
		Rationale:      "Chosen by the local mock from a keyword in the dream.",
		Interpretation: "This is a placeholder interpretation produced without contacting a model. The dream is recorded so the journal can be exercised end to end.",
	}
	b, err := json.Marshal(reply)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
