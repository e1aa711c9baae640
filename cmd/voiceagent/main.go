// voiceagent: HTTP backend for a voice conversational agent.
// Accepts audio uploads, transcribes them, generates a reply and
// returns it as synthesized speech.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voiceagent/internal/config"
	"voiceagent/internal/log"
	"voiceagent/pkg/agent"
	"voiceagent/pkg/conversation"
	"voiceagent/pkg/llm"
	"voiceagent/pkg/stt"
	"voiceagent/pkg/tts"
	"voiceagent/pkg/web"
)

var (
	version = "1.0.0"
	port    = flag.String("port", "", "HTTP server port (overrides PORT)")
	debug   = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	log.Init(cfg.LogLevel)
	logger := log.L()

	logger.Info("voice agent starting", "version", version, "port", cfg.Port)

	sttProvider := buildSTT(cfg)
	llmProvider := buildLLM(cfg)
	synth := buildTTS(cfg)
	if sttProvider == nil || llmProvider == nil || synth == nil {
		logger.Warn("missing credentials, chat endpoint will return 503",
			"stt", sttProvider != nil,
			"llm", llmProvider != nil,
			"tts", synth != nil,
		)
	}

	store := conversation.NewMemoryStore()
	a := agent.New(sttProvider, llmProvider, synth, store, logger)

	srv := web.NewServer(a, web.Options{
		StaticDir: cfg.StaticDir,
		Debug:     *debug,
		Logger:    logger,
	})

	go func() {
		if err := srv.Listen(":" + cfg.Port); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	closeAll(sttProvider, llmProvider, synth)
	logger.Info("goodbye")
}

// buildSTT returns the configured transcription client, or nil when its
// credentials are absent.
func buildSTT(cfg config.Settings) stt.Provider {
	switch cfg.STTProvider {
	case "google":
		// Uses application default credentials instead of an API key.
		p, err := stt.NewGoogle(context.Background(), stt.WithLogger(log.L()))
		if err != nil {
			log.L().Warn("google speech unavailable", "error", err)
			return nil
		}
		return p
	default:
		if cfg.AssemblyAIKey == "" {
			return nil
		}
		p, err := stt.NewAssemblyAI(
			stt.WithAPIKey(cfg.AssemblyAIKey),
			stt.WithLogger(log.L()),
		)
		if err != nil {
			log.L().Warn("assemblyai unavailable", "error", err)
			return nil
		}
		return p
	}
}

// buildLLM returns the configured reply generator, or nil.
func buildLLM(cfg config.Settings) llm.Provider {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil
		}
		p, err := llm.NewOpenAI(
			llm.WithAPIKey(cfg.OpenAIKey),
			llm.WithLogger(log.L()),
		)
		if err != nil {
			log.L().Warn("openai unavailable", "error", err)
			return nil
		}
		return p
	default:
		if cfg.GeminiKey == "" {
			return nil
		}
		p, err := llm.NewGemini(
			llm.WithAPIKey(cfg.GeminiKey),
			llm.WithModel(cfg.GeminiModel),
			llm.WithLogger(log.L()),
		)
		if err != nil {
			log.L().Warn("gemini unavailable", "error", err)
			return nil
		}
		return p
	}
}

// buildTTS returns the speech synthesizer, or nil.
func buildTTS(cfg config.Settings) tts.Synthesizer {
	if cfg.MurfKey == "" {
		return nil
	}
	p, err := tts.NewMurf(
		tts.WithAPIKey(cfg.MurfKey),
		tts.WithAPIURL(cfg.MurfAPIURL),
		tts.WithLogger(log.L()),
	)
	if err != nil {
		log.L().Warn("murf unavailable", "error", err)
		return nil
	}
	return p
}

func closeAll(sttP stt.Provider, llmP llm.Provider, ttsP tts.Synthesizer) {
	if sttP != nil {
		if err := sttP.Close(); err != nil {
			log.L().Warn("stt close", "error", err)
		}
	}
	if llmP != nil {
		if err := llmP.Close(); err != nil {
			log.L().Warn("llm close", "error", err)
		}
	}
	if ttsP != nil {
		if err := ttsP.Close(); err != nil {
			log.L().Warn("tts close", "error", err)
		}
	}
}
