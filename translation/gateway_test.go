package translation

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"babel-relay/domain"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func completionsResponse(content string) string {
	payload := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	body, _ := json.Marshal(payload)
	return string(body)
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) (*Gateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	gateway := NewGateway(Config{
		Endpoint: server.URL,
		APIKey:   "test-key",
		Model:    "llama-3.1-8b-instant",
	}, logs.GetLoggerFromLevel(slog.LevelDebug))
	return gateway, server
}

func TestGateway_Translate_Sends_Context_And_Sanitizes(t *testing.T) {
	req := require.New(t)

	var captured chatRequest
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		req.Equal(http.MethodPost, r.Method)
		req.Equal("Bearer test-key", r.Header.Get("Authorization"))
		req.NoError(json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionsResponse(`Translation: "Bonjour tout le monde"`)))
	})

	contextWindow := []domain.HistoryEntry{
		{Handle: "Ana", Content: "hola"},
		{Handle: "Luc", Content: "salut"},
	}

	// When translating with a context window
	result, err := gateway.Translate(context.Background(), "hello everyone", "fr", contextWindow)

	// Then the backend commentary is stripped from the reply
	req.NoError(err)
	req.Equal("Bonjour tout le monde", result)

	// And the request carries model, prompts and the conversation context
	req.Equal("llama-3.1-8b-instant", captured.Model)
	req.Len(captured.Messages, 2)
	req.Equal("system", captured.Messages[0].Role)
	req.Contains(captured.Messages[1].Content, "[Ana]: hola")
	req.Contains(captured.Messages[1].Content, "[Luc]: salut")
	req.Contains(captured.Messages[1].Content, "Translate ONLY to French")
	req.Contains(captured.Messages[1].Content, "hello everyone")
	req.InDelta(0.2, captured.Temperature, 0.001)
	req.Equal(500, captured.MaxTokens)
}

func TestGateway_Translate_Non2xx_Status_Is_An_Error(t *testing.T) {
	req := require.New(t)
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	})

	_, err := gateway.Translate(context.Background(), "hello", "fr", nil)

	req.Error(err)
	var backendErr *Error
	req.ErrorAs(err, &backendErr)
	req.Contains(err.Error(), "429")
}

func TestGateway_Translate_Malformed_Body_Is_An_Error(t *testing.T) {
	req := require.New(t)
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json at all"))
	})

	_, err := gateway.Translate(context.Background(), "hello", "fr", nil)

	var backendErr *Error
	req.ErrorAs(err, &backendErr)
}

func TestGateway_Translate_No_Choices_Is_An_Error(t *testing.T) {
	req := require.New(t)
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	_, err := gateway.Translate(context.Background(), "hello", "fr", nil)

	var backendErr *Error
	req.ErrorAs(err, &backendErr)
}

func TestGateway_Translate_Unreachable_Backend_Is_An_Error(t *testing.T) {
	req := require.New(t)
	gateway, server := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := gateway.Translate(context.Background(), "hello", "fr", nil)

	var backendErr *Error
	req.ErrorAs(err, &backendErr)
}

func TestGateway_DetectLanguage_Confident_Local_Detection_Skips_Backend(t *testing.T) {
	req := require.New(t)
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for locally detectable text")
	})

	tag, err := gateway.DetectLanguage(context.Background(),
		"The quick brown fox jumps over the lazy dog while everyone watches the morning sunrise")

	req.NoError(err)
	req.Equal("en", tag)
}

func TestGateway_DetectLanguage_Falls_Back_To_Backend(t *testing.T) {
	req := require.New(t)
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		var payload chatRequest
		req.NoError(json.NewDecoder(r.Body).Decode(&payload))
		req.Equal(3, payload.MaxTokens)
		_, _ = w.Write([]byte(completionsResponse(`"EN".`)))
	})

	// Digits carry no letters, so local detection cannot be confident.
	tag, err := gateway.DetectLanguage(context.Background(), "12345")

	// The noisy backend reply is normalized to a bare two-letter tag.
	req.NoError(err)
	req.Equal("en", tag)
}

func TestGateway_DetectLanguage_Empty_Backend_Reply_Is_An_Error(t *testing.T) {
	req := require.New(t)
	gateway, _ := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionsResponse("...")))
	})

	_, err := gateway.DetectLanguage(context.Background(), "12345")

	var backendErr *Error
	req.ErrorAs(err, &backendErr)
}
