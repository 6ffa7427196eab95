package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/conneroisu/groq-go"

	"cryptocast/pkg/prompts"
)

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqChoice struct {
	Index        int         `json:"index"`
	Message      groqMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type groqResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []groqChoice `json:"choices"`
}

func testPrompts() *prompts.Prompts {
	return &prompts.Prompts{
		System: prompts.SystemPrompts{
			Narration: "You narrate crypto news.",
			Caption:   "You write captions.",
		},
		Narration: prompts.NarrationPrompts{
			Generate: "{{.Style}} {{.Words}} words: {{.Title}}|{{range .KeyPoints}}{{.}};{{end}}",
		},
		Caption: prompts.CaptionPrompts{
			Generate: "Caption for {{.Title}} / {{.Description}}",
		},
	}
}

func makeGroqResponse(content string) groqResponse {
	return groqResponse{
		ID:      "test-id",
		Object:  "chat.completion",
		Created: 1234567890,
		Model:   "llama-3.3-70b-versatile",
		Choices: []groqChoice{{
			Message:      groqMessage{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
	}
}

func newTestClient(t *testing.T, serverURL string) *GroqClient {
	t.Helper()
	client, err := groq.NewClient("test-api-key", groq.WithBaseURL(serverURL+"/"))
	if err != nil {
		t.Fatalf("failed to create groq client: %v", err)
	}
	return &GroqClient{
		client:  client,
		model:   groq.ChatModel("llama-3.3-70b-versatile"),
		prompts: testPrompts(),
	}
}

func TestGenerateNarration(t *testing.T) {
	noChoices := makeGroqResponse("")
	noChoices.Choices = nil

	tests := []struct {
		name           string
		responseBody   string
		statusCode     int
		wantErrContain string
		wantContent    string
	}{
		{
			name:         "successfulGeneration",
			responseBody: mustJSON(makeGroqResponse("  Bitcoin climbed today.  ")),
			statusCode:   http.StatusOK,
			wantContent:  "Bitcoin climbed today.",
		},
		{
			name:           "emptyResponse",
			responseBody:   mustJSON(makeGroqResponse("")),
			statusCode:     http.StatusOK,
			wantErrContain: "empty response",
		},
		{
			name:           "noChoices",
			responseBody:   mustJSON(noChoices),
			statusCode:     http.StatusOK,
			wantErrContain: "no response",
		},
		{
			name:           "httpErrorUnauthorized",
			responseBody:   `{"error": {"message": "invalid api key", "type": "authentication_error"}}`,
			statusCode:     http.StatusUnauthorized,
			wantErrContain: "generate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var userPrompt string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				var req struct {
					Messages []groqMessage `json:"messages"`
				}
				_ = json.Unmarshal(body, &req)
				if len(req.Messages) == 2 {
					userPrompt = req.Messages[1].Content
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)
			got, err := client.GenerateNarration(context.Background(), NarrationRequest{
				Title:     "Daily Crypto",
				Style:     "casual",
				Duration:  60,
				KeyPoints: []string{"BTC up", "ETH flat"},
			})

			if tt.wantErrContain != "" {
				if err == nil {
					t.Fatalf("GenerateNarration() expected error containing %q, got nil", tt.wantErrContain)
				}
				if !strings.Contains(err.Error(), tt.wantErrContain) {
					t.Errorf("GenerateNarration() error = %v, want error containing %q", err, tt.wantErrContain)
				}
				return
			}

			if err != nil {
				t.Fatalf("GenerateNarration() unexpected error: %v", err)
			}
			if got != tt.wantContent {
				t.Errorf("GenerateNarration() = %q, want %q", got, tt.wantContent)
			}
			if userPrompt != "casual 150 words: Daily Crypto|BTC up;ETH flat;" {
				t.Errorf("prompt = %q", userPrompt)
			}
		})
	}
}

func TestGenerateCaption(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mustJSON(makeGroqResponse("Crypto moves fast #crypto"))))
	}))
	defer server.Close()

	got, err := newTestClient(t, server.URL).GenerateCaption(context.Background(), "Title", "Desc")
	if err != nil {
		t.Fatalf("GenerateCaption() error: %v", err)
	}
	if got != "Crypto moves fast #crypto" {
		t.Errorf("GenerateCaption() = %q", got)
	}
}

func TestWordBudget(t *testing.T) {
	tests := []struct {
		duration int
		want     int
	}{
		{60, 150},
		{120, 300},
		{4, 20},
	}
	for _, tt := range tests {
		if got := WordBudget(tt.duration); got != tt.want {
			t.Errorf("WordBudget(%d) = %d, want %d", tt.duration, got, tt.want)
		}
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
