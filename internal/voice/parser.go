// Package voice maps spoken editor commands to actions.
package voice

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Action names returned by Parse.
const (
	ActionModifyLines   = "modify_lines"
	ActionExplainCode   = "explain_code"
	ActionExportProject = "export_project"
	ActionDetectBugs    = "detect_bugs"
	ActionRunCode       = "run_code"
)

// ErrUnknownCommand is returned when no action matches.
var ErrUnknownCommand = errors.New("unknown voice command")

var (
	lineRef       = regexp.MustCompile(`lines?\s*(\d+)(?:\s*(?:to|-)\s*(\d+))?`)
	lineRefPrefix = regexp.MustCompile(`.*lines?\s*\d+(?:\s*(?:to|-)\s*\d+)?\s*`)
)

// Command is a parsed voice command. Line fields are set only for
// ActionModifyLines.
type Command struct {
	Action       string `json:"action"`
	StartLine    int    `json:"start_line,omitempty"`
	EndLine      int    `json:"end_line,omitempty"`
	Modification string `json:"modification,omitempty"`
}

// keyword rules are checked in order; the first hit wins.
var rules = []struct {
	action   string
	keywords []string
}{
	{ActionExplainCode, []string{"explain"}},
	{ActionExportProject, []string{"download", "export"}},
	{ActionDetectBugs, []string{"bug", "error"}},
	{ActionRunCode, []string{"run"}},
}

// Parse interprets command.
func Parse(command string) (*Command, error) {
	cmd := strings.ToLower(strings.TrimSpace(command))

	if strings.Contains(cmd, "line") && containsAny(cmd, "change", "edit", "modify") {
		if m := lineRef.FindStringSubmatch(cmd); m != nil {
			start, err := strconv.Atoi(m[1])
			if err == nil {
				end := start
				if m[2] != "" {
					if n, err := strconv.Atoi(m[2]); err == nil {
						end = n
					}
				}
				return &Command{
					Action:       ActionModifyLines,
					StartLine:    start,
					EndLine:      end,
					Modification: lineRefPrefix.ReplaceAllString(cmd, ""),
				}, nil
			}
		}
	}

	for _, rule := range rules {
		if containsAny(cmd, rule.keywords...) {
			return &Command{Action: rule.action}, nil
		}
	}
	return nil, ErrUnknownCommand
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
