package scanning

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// TranscriberConfig selects and configures an OCR backend
type TranscriberConfig struct {
	Kind        string // none, gemini or ollama
	GeminiKey   string
	GeminiModel string
	OllamaURL   string
	OllamaModel string
}

// NewTranscriber builds the configured transcriber. Kind "none" returns a nil
// Transcriber, which leaves scanned pages and images unreadable.
func NewTranscriber(cfg TranscriberConfig) (Transcriber, error) {
	switch cfg.Kind {
	case "", "none":
		return nil, nil
	case "gemini":
		apiKey := cfg.GeminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, errors.New("gemini API key is required, set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini transcriber...", "model", cfg.GeminiModel)
		g, err := NewGemini(apiKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "ollama":
		slog.Info("Initializing Ollama transcriber...", "url", cfg.OllamaURL, "model", cfg.OllamaModel)
		o, err := NewOllama(cfg.OllamaURL, cfg.OllamaModel)
		if err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("invalid OCR backend %q, expected none, gemini or ollama", cfg.Kind)
	}
}
