// Package codegen turns natural-language requests into model prompts and
// cleans up what comes back.
package codegen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is the programming language assumed when none is given.
const DefaultLanguage = "python"

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Translator detects and translates natural-language text.
type Translator interface {
	Detect(ctx context.Context, text string) (language.Tag, error)
	Translate(ctx context.Context, text string, target language.Tag) (string, error)
}

// Transcriber converts recorded speech to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error)
}

// ModifyRequest asks for a line-range edit of existing code.
type ModifyRequest struct {
	OriginalCode  string
	SelectedLines string
	LineStart     int
	LineEnd       int
	Modification  string
	Language      string
}

// PlannedFile is one file of a multi-file plan.
type PlannedFile struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// Plan is the model's answer to whether a project needs several files.
type Plan struct {
	IsMultiFile bool          `json:"is_multi_file"`
	Files       []PlannedFile `json:"files,omitempty"`
}

// Service handles code generation operations.
type Service struct {
	gen        Generator
	translator Translator
	speech     Transcriber
	logger     *slog.Logger
}

// NewService creates a new code generation service. translator and speech
// may be nil; translation is then skipped and Transcribe fails.
func NewService(gen Generator, translator Translator, speech Transcriber, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		gen:        gen,
		translator: translator,
		speech:     speech,
		logger:     logger,
	}
}

// Generate converts a description into code.
func (s *Service) Generate(ctx context.Context, text, lang string) (string, error) {
	text = s.toEnglish(ctx, text)
	out, err := s.gen.Generate(ctx, generatePrompt(text, defaultLanguage(lang)))
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}
	return StripCodeFence(out), nil
}

// Modify rewrites the selected lines of a program and returns the full code.
func (s *Service) Modify(ctx context.Context, req ModifyRequest) (string, error) {
	req.Language = defaultLanguage(req.Language)
	if req.LineStart == 0 {
		req.LineStart = 1
	}
	if req.LineEnd == 0 {
		req.LineEnd = req.LineStart
	}
	out, err := s.gen.Generate(ctx, modifyPrompt(req))
	if err != nil {
		return "", fmt.Errorf("modifying code: %w", err)
	}
	return StripCodeFence(out), nil
}

// Describe summarises what code does.
func (s *Service) Describe(ctx context.Context, code, lang string) (string, error) {
	out, err := s.gen.Generate(ctx, describePrompt(code, defaultLanguage(lang)))
	if err != nil {
		return "", fmt.Errorf("describing code: %w", err)
	}
	return out, nil
}

// Explain produces a beginner-friendly explanation.
func (s *Service) Explain(ctx context.Context, code, lang string) (string, error) {
	out, err := s.gen.Generate(ctx, explainPrompt(code, defaultLanguage(lang)))
	if err != nil {
		return "", fmt.Errorf("explaining code: %w", err)
	}
	return out, nil
}

// Debug returns a structured analysis. Model failures are reported in the
// returned text rather than as an error.
func (s *Service) Debug(ctx context.Context, code, lang string) string {
	out, err := s.gen.Generate(ctx, debugPrompt(code, defaultLanguage(lang)))
	if err != nil {
		s.logger.Warn("debug analysis failed", "error", err)
		return fmt.Sprintf("Debug analysis failed: %v", err)
	}
	return out
}

// DetectBugs asks for a list of issues and suggested fixes.
func (s *Service) DetectBugs(ctx context.Context, code, lang string) (string, error) {
	out, err := s.gen.Generate(ctx, detectBugsPrompt(code, defaultLanguage(lang)))
	if err != nil {
		return "", fmt.Errorf("detecting bugs: %w", err)
	}
	return out, nil
}

// PlanProject asks whether a description warrants several files. A reply
// that is not valid JSON is treated as a single-file project.
func (s *Service) PlanProject(ctx context.Context, description, lang string) (*Plan, error) {
	out, err := s.gen.Generate(ctx, planPrompt(description, defaultLanguage(lang)))
	if err != nil {
		return nil, fmt.Errorf("planning project: %w", err)
	}

	var plan Plan
	if err := json.Unmarshal([]byte(StripCodeFence(strings.TrimSpace(out))), &plan); err != nil {
		s.logger.Debug("project plan was not JSON", "error", err)
		return &Plan{IsMultiFile: false}, nil
	}
	return &plan, nil
}

// Transcribe converts audio to English text.
func (s *Service) Transcribe(ctx context.Context, audio []byte, languageCode string) (string, error) {
	if s.speech == nil {
		return "", fmt.Errorf("transcribing audio: no speech recognizer configured")
	}
	text, err := s.speech.Transcribe(ctx, audio, languageCode)
	if err != nil {
		return "", err
	}
	return s.toEnglish(ctx, text), nil
}

// toEnglish returns text translated to English when it is in another
// language. Any translation failure leaves text unchanged.
func (s *Service) toEnglish(ctx context.Context, text string) string {
	if s.translator == nil || strings.TrimSpace(text) == "" {
		return text
	}

	tag, err := s.translator.Detect(ctx, text)
	if err != nil {
		s.logger.Warn("language detection failed", "error", err)
		return text
	}
	if tag == language.Und || isEnglish(tag) {
		return text
	}

	translated, err := s.translator.Translate(ctx, text, language.English)
	if err != nil {
		s.logger.Warn("translation failed", "error", err, "source", tag.String())
		return text
	}
	s.logger.Debug("translated input", "source", tag.String())
	return translated
}

// StripCodeFence removes a surrounding markdown code fence. When the text
// starts with ``` the first and last lines are dropped.
func StripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= 2 {
		return ""
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}

func isEnglish(tag language.Tag) bool {
	base, _ := tag.Base()
	eng, _ := language.English.Base()
	return base == eng
}

func defaultLanguage(lang string) string {
	if strings.TrimSpace(lang) == "" {
		return DefaultLanguage
	}
	return lang
}
