package web

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"voiceagent/pkg/agent"
	"voiceagent/pkg/stt"
	"voiceagent/pkg/tts"
)

// ChatResponse is the success body of the chat endpoint.
type ChatResponse struct {
	AudioURL string `json:"audio_url"`
	UserText string `json:"user_text"`
	AIText   string `json:"ai_text"`
}

// errorBody is the error shape every endpoint uses.
type errorBody struct {
	Detail string `json:"detail"`
}

func fail(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(errorBody{Detail: detail})
}

// handleIndex serves the frontend entry page.
func (s *Server) handleIndex(c *fiber.Ctx) error {
	index := filepath.Join(s.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return fail(c, fiber.StatusNotFound, "Frontend not found.")
	}
	return c.SendFile(index)
}

// handleHealth reports liveness and the session count.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"ready":    s.agent.Available(),
		"sessions": s.agent.Store().Sessions(),
	})
}

// handleChat runs one voice exchange: multipart audio in, reply audio
// URL plus both transcripts out.
func (s *Server) handleChat(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Missing audio file upload 'file'.")
	}
	voiceID := c.FormValue("voice_id")

	f, err := fileHeader.Open()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Could not read uploaded file.")
	}
	audio, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Could not read uploaded file.")
	}

	result, err := s.agent.Chat(c.Context(), sessionID, audio, voiceID)
	if err != nil {
		return s.chatError(c, err)
	}

	return c.JSON(ChatResponse{
		AudioURL: result.AudioURL,
		UserText: result.UserText,
		AIText:   result.AIText,
	})
}

// chatError maps pipeline failures onto HTTP statuses. Client-caused
// failures become 4xx, missing configuration becomes 503, everything
// else is a 500 carrying the stage message.
func (s *Server) chatError(c *fiber.Ctx, err error) error {
	if errors.Is(err, agent.ErrUnavailable) {
		return fail(c, fiber.StatusServiceUnavailable, "One or more services are unavailable.")
	}

	se := agent.AsStageError(err)
	if se == nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	switch se.Stage {
	case agent.StageTranscribe:
		if errors.Is(err, stt.ErrNoSpeech) {
			return fail(c, fiber.StatusBadRequest, "No speech detected in the audio.")
		}
		if errors.Is(err, stt.ErrEmptyAudio) {
			return fail(c, fiber.StatusBadRequest, "Uploaded audio is empty.")
		}
	case agent.StageSynthesize:
		// Upstream HTTP errors (unknown voice, quota, outages) keep their
		// status so the client sees what the synthesis API said.
		var apiErr *tts.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 {
			return fail(c, apiErr.StatusCode, apiErr.Message)
		}
	}

	return fail(c, fiber.StatusInternalServerError, se.Error())
}
