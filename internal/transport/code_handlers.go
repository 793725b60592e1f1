package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/rpggio/v2c/internal/apierror"
	"github.com/rpggio/v2c/internal/codegen"
	"github.com/rpggio/v2c/internal/format"
	"github.com/rpggio/v2c/internal/gateway/speech"
	"github.com/rpggio/v2c/internal/voice"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var languageNamer = display.Languages(language.English)

type codeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type voiceLanguage struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	voices := make([]voiceLanguage, 0, len(s.opts.VoiceLanguages))
	for _, code := range s.opts.VoiceLanguages {
		name := code
		if tag, err := language.Parse(code); err == nil {
			if n := languageNamer.Name(tag); n != "" {
				name = n
			}
		}
		voices = append(voices, voiceLanguage{Code: code, Name: name})
	}

	programming := s.opts.ProgrammingLanguages
	if programming == nil {
		programming = map[string]string{}
	}
	keys := make([]string, 0, len(programming))
	for k := range programming {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	writeOK(w, envelope{
		"name":                  "V2C - Voice to Code",
		"voice_languages":       voices,
		"programming_languages": programming,
		"programming_order":     keys,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, envelope{"status": "ok"})
}

func (s *Server) handleGenerateCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	code, err := s.services.Code.Generate(r.Context(), req.Text, req.Language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"code": code})
}

func (s *Server) handleModifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OriginalCode  string `json:"original_code"`
		SelectedLines string `json:"selected_lines"`
		LineStart     int    `json:"line_start"`
		LineEnd       int    `json:"line_end"`
		Modification  string `json:"modification"`
		Language      string `json:"language"`
	}
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	code, err := s.services.Code.Modify(r.Context(), codegen.ModifyRequest{
		OriginalCode:  req.OriginalCode,
		SelectedLines: req.SelectedLines,
		LineStart:     req.LineStart,
		LineEnd:       req.LineEnd,
		Modification:  req.Modification,
		Language:      req.Language,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"modified_code": code})
}

func (s *Server) handleProcessAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, r, maxErr)
			return
		}
		writeFailure(w, http.StatusOK, apierror.InvalidInput("No audio file provided"), nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeFailure(w, http.StatusOK, apierror.InvalidInput("No audio file provided"), nil)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("reading audio upload: %w", err))
		return
	}

	languageCode := strings.TrimSpace(r.FormValue("language"))
	if languageCode == "" {
		languageCode = speech.DefaultLanguageCode
	}

	transcript, err := s.services.Code.Transcribe(r.Context(), audio, languageCode)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"transcript": transcript})
}

func (s *Server) handleRunCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res := codegen.Run(req.Language)
	if !res.Success {
		writeFailure(w, http.StatusOK,
			&apierror.APIError{Code: apierror.CodeUnsupported, Message: res.Error},
			envelope{"output": ""})
		return
	}
	writeOK(w, envelope{"output": res.Output, "error": nil})
}

func (s *Server) handleFormatCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	lang := req.Language
	if lang == "" {
		lang = format.Detect(req.Code)
	}
	if lang == "" {
		lang = codegen.DefaultLanguage
	}
	writeOK(w, envelope{"formatted_code": format.Format(req.Code, lang), "language": lang})
}

func (s *Server) handleDebugCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"debug_info": s.services.Code.Debug(r.Context(), req.Code, req.Language)})
}

func (s *Server) handleGenerateDescription(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	description, err := s.services.Code.Describe(r.Context(), req.Code, req.Language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"description": description})
}

func (s *Server) handleCreateMultiFileProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description string `json:"description"`
		Language    string `json:"language"`
	}
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	plan, err := s.services.Code.PlanProject(r.Context(), req.Description, req.Language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"project_data": plan})
}

func (s *Server) handleExplainCode(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	explanation, err := s.services.Code.Explain(r.Context(), req.Code, req.Language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	// Spoken explanations are not generated; audio_file stays null.
	writeOK(w, envelope{"explanation": explanation, "audio_file": nil})
}

func (s *Server) handleDetectBugs(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	analysis, err := s.services.Code.DetectBugs(r.Context(), req.Code, req.Language)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeOK(w, envelope{"analysis": analysis})
}

func (s *Server) handleVoiceCommand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Command  string `json:"command"`
		Code     string `json:"code"`
		Language string `json:"language"`
	}
	if err := decodeJSON(w, r, s.opts.MaxUploadBytes, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cmd, err := voice.Parse(req.Command)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	payload := envelope{"action": cmd.Action}
	switch cmd.Action {
	case voice.ActionModifyLines:
		payload["start_line"] = cmd.StartLine
		payload["end_line"] = cmd.EndLine
		payload["modification"] = cmd.Modification
	case voice.ActionRunCode:
		lang := req.Language
		if lang == "" {
			lang = codegen.DefaultLanguage
		}
		res := codegen.Run(lang)
		output := res.Output
		if !res.Success {
			output = fmt.Sprintf("Server-side execution for %s not available. Code should run client-side.", lang)
		}
		payload["output"] = output
	}
	writeOK(w, payload)
}
