package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"voiceagent/pkg/agent"
	"voiceagent/pkg/conversation"
	"voiceagent/pkg/llm"
	"voiceagent/pkg/stt"
	"voiceagent/pkg/tts"
	"voiceagent/pkg/web"
)

func newTestServer(t *testing.T, sttP stt.Provider, llmP llm.Provider, ttsP tts.Synthesizer) *web.Server {
	t.Helper()
	store := conversation.NewMemoryStore()
	a := agent.New(sttP, llmP, ttsP, store, nil)
	return web.NewServer(a, web.Options{StaticDir: t.TempDir()})
}

func chatRequest(t *testing.T, sessionID string, audio []byte, voiceID string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "clip.webm")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(audio); err != nil {
		t.Fatal(err)
	}
	if voiceID != "" {
		if err := w.WriteField("voice_id", voiceID); err != nil {
			t.Fatal(err)
		}
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/agent/chat/"+sessionID, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
}

func TestChatEndpoint(t *testing.T) {
	srv := newTestServer(t,
		stt.NewMock("What's 2+2?"),
		llm.NewMock("4"),
		tts.NewMock("http://cdn.example/reply.mp3"),
	)

	resp, err := srv.App().Test(chatRequest(t, "s1", []byte("fake-audio"), "en-US-terrell"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body web.ChatResponse
	decodeBody(t, resp, &body)
	if body.AudioURL != "http://cdn.example/reply.mp3" {
		t.Errorf("audio_url = %q", body.AudioURL)
	}
	if body.UserText != "What's 2+2?" || body.AIText != "4" {
		t.Errorf("texts = %q / %q", body.UserText, body.AIText)
	}
}

func TestChatEndpoint_MissingFile(t *testing.T) {
	srv := newTestServer(t, stt.NewMock("x"), llm.NewMock("y"), tts.NewMock("u"))

	req := httptest.NewRequest(http.MethodPost, "/agent/chat/s1", nil)
	resp, err := srv.App().Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, resp, &body)
	if body.Detail == "" {
		t.Error("expected a detail message")
	}
}

func TestChatEndpoint_Unavailable(t *testing.T) {
	srv := newTestServer(t, nil, llm.NewMock("y"), tts.NewMock("u"))

	resp, err := srv.App().Test(chatRequest(t, "s1", []byte("audio"), ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}

	var body struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, resp, &body)
	if body.Detail != "One or more services are unavailable." {
		t.Errorf("detail = %q", body.Detail)
	}
}

func TestChatEndpoint_NoSpeech(t *testing.T) {
	srv := newTestServer(t, stt.WithError(stt.ErrNoSpeech), llm.NewMock("y"), tts.NewMock("u"))

	resp, err := srv.App().Test(chatRequest(t, "s1", []byte("silence"), ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestChatEndpoint_SynthesisVoiceErrorKeepsStatus(t *testing.T) {
	srv := newTestServer(t,
		stt.NewMock("hello"),
		llm.NewMock("hi"),
		tts.WithError(&tts.APIError{StatusCode: 400, Message: "voice not found", Provider: "murf"}),
	)

	resp, err := srv.App().Test(chatRequest(t, "s1", []byte("audio"), "bogus-voice"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, resp, &body)
	if body.Detail != "voice not found" {
		t.Errorf("detail = %q", body.Detail)
	}
}

func TestChatEndpoint_SynthesisOutageKeepsStatus(t *testing.T) {
	srv := newTestServer(t,
		stt.NewMock("hello"),
		llm.NewMock("hi"),
		tts.WithError(&tts.APIError{StatusCode: 502, Message: "render farm down", Provider: "murf"}),
	)

	resp, err := srv.App().Test(chatRequest(t, "s1", []byte("audio"), ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}

	var body struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, resp, &body)
	if body.Detail != "render farm down" {
		t.Errorf("detail = %q", body.Detail)
	}
}

func TestChatEndpoint_GenerationFailure(t *testing.T) {
	srv := newTestServer(t,
		stt.NewMock("hello"),
		llm.WithError(llm.ErrEmptyReply),
		tts.NewMock("u"),
	)

	resp, err := srv.App().Test(chatRequest(t, "s1", []byte("audio"), ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestIndex(t *testing.T) {
	t.Run("served when present", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>hi</html>"), 0o644); err != nil {
			t.Fatal(err)
		}

		store := conversation.NewMemoryStore()
		a := agent.New(stt.NewMock("x"), llm.NewMock("y"), tts.NewMock("u"), store, nil)
		srv := web.NewServer(a, web.Options{StaticDir: dir})

		resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		data, _ := io.ReadAll(resp.Body)
		if !bytes.Contains(data, []byte("hi")) {
			t.Errorf("unexpected body %q", data)
		}
	})

	t.Run("404 when absent", func(t *testing.T) {
		srv := newTestServer(t, stt.NewMock("x"), llm.NewMock("y"), tts.NewMock("u"))

		resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/", nil))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", resp.StatusCode)
		}

		var body struct {
			Detail string `json:"detail"`
		}
		decodeBody(t, resp, &body)
		if body.Detail != "Frontend not found." {
			t.Errorf("detail = %q", body.Detail)
		}
	})
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, stt.NewMock("x"), llm.NewMock("y"), tts.NewMock("u"))

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Status   string `json:"status"`
		Ready    bool   `json:"ready"`
		Sessions int    `json:"sessions"`
	}
	decodeBody(t, resp, &body)
	if body.Status != "ok" || !body.Ready || body.Sessions != 0 {
		t.Errorf("unexpected health body: %+v", body)
	}
}
