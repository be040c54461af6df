package party

import (
	"context"
	"fmt"
	"os"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// mockMessager implements AnthropicMessager for testing.
type mockMessager struct {
	response *anthropic.Message
	err      error
	called   bool
}

func (m *mockMessager) New(_ context.Context, _ anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	m.called = true
	return m.response, m.err
}

func newMockMessage(text string) *anthropic.Message {
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: text},
		},
	}
}

func withMockClient(mock *mockMessager) func() {
	old := newAnthropicClient
	newAnthropicClient = func(_ string) AnthropicMessager { return mock }
	return func() { newAnthropicClient = old }
}

func TestExtractPartiesSkipsLLMWhenPatternsMatch(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	mock := &mockMessager{err: fmt.Errorf("should not be called")}
	cleanup := withMockClient(mock)
	defer cleanup()

	p, d := ExtractParties(context.Background(), sampleFiling)
	if p.Name == UnknownPlaintiffName || d.Name == UnknownDefendantName {
		t.Fatalf("patterns should have resolved both sides: %q / %q", p.Name, d.Name)
	}
	if mock.called {
		t.Fatal("LLM must not be called when patterns succeed")
	}
}

func TestExtractPartiesLLMFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	cleanup := withMockClient(&mockMessager{
		response: newMockMessage(`{
			"plaintiff_name": "Truist Bank",
			"defendant_name": "Carlos Rivera"
		}`),
	})
	defer cleanup()

	p, d := ExtractParties(context.Background(), "garbled scan with no recognizable caption")
	if p.Name != "Truist Bank" {
		t.Errorf("plaintiff = %q, want Truist Bank", p.Name)
	}
	if p.Type != PlaintiffBank || !p.IsGoodLead {
		t.Errorf("plaintiff classified %s/%v, want bank/true", p.Type, p.IsGoodLead)
	}
	if d.Name != "Carlos Rivera" {
		t.Errorf("defendant = %q, want Carlos Rivera", d.Name)
	}
	if d.Type != DefendantIndividual || !d.IsGoodLead {
		t.Errorf("defendant classified %s/%v, want individual/true", d.Type, d.IsGoodLead)
	}
}

func TestExtractPartiesLLMHandlesCodeFences(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	cleanup := withMockClient(&mockMessager{
		response: newMockMessage("```json\n" + `{
			"plaintiff_name": "Oakwood HOA",
			"defendant_name": ""
		}` + "\n```"),
	})
	defer cleanup()

	p, d := ExtractParties(context.Background(), "illegible text")
	if p.Name != "Oakwood HOA" || p.Type != PlaintiffHOA {
		t.Errorf("plaintiff = %q/%s", p.Name, p.Type)
	}
	if d.Name != UnknownDefendantName {
		t.Errorf("empty LLM name should keep the sentinel, got %q", d.Name)
	}
}

func TestExtractPartiesLLMFailureKeepsSentinels(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	cleanup := withMockClient(&mockMessager{err: fmt.Errorf("connection refused")})
	defer cleanup()

	p, d := ExtractParties(context.Background(), "nothing recognizable")
	if p.Name != UnknownPlaintiffName || d.Name != UnknownDefendantName {
		t.Fatalf("got %q / %q, want sentinels", p.Name, d.Name)
	}
}

func TestExtractPartiesNoAPIKey(t *testing.T) {
	os.Unsetenv("ANTHROPIC_API_KEY")

	mock := &mockMessager{err: fmt.Errorf("should not be called")}
	cleanup := withMockClient(mock)
	defer cleanup()

	p, _ := ExtractParties(context.Background(), "nothing recognizable")
	if p.Name != UnknownPlaintiffName {
		t.Fatalf("plaintiff = %q, want sentinel", p.Name)
	}
	if mock.called {
		t.Fatal("LLM must not be called without an API key")
	}
}

func TestStripCodeFences(t *testing.T) {
	in := "```json\n{\"plaintiff_name\":\"X\"}\n```"
	want := `{"plaintiff_name":"X"}`
	if got := stripCodeFences(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := stripCodeFences(want); got != want {
		t.Fatalf("unfenced input should pass through, got %q", got)
	}
}
