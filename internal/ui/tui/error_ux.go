package tui

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aalvaropc/monoledger/internal/domain"
)

var reLine = regexp.MustCompile(`(?i)\bline\s+(\d+)\b`)

// userMessage turns an error into one short line for the status bar.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return "Cancelled"
	}

	var oe *domain.OpError
	if errors.As(err, &oe) {
		switch oe.Kind {

		case domain.KindNotFound:
			switch {
			case strings.HasPrefix(oe.Op, "cardset"):
				return "Card set not found"
			case strings.HasPrefix(oe.Op, "sessionstore"):
				return "No saved session"
			case strings.Contains(oe.Op, "workspacefinder.findroot"):
				return "Workspace not found"
			}
			return reason(oe, "Not found")

		case domain.KindInvalidConfig:
			base := "config"
			if strings.TrimSpace(oe.Path) != "" {
				base = filepath.Base(oe.Path)
			}

			line := extractLine(err.Error())
			if line != "" {
				return "Invalid YAML at " + base + " line " + line
			}

			if looksLikeYAMLProblem(err.Error()) {
				return "Invalid YAML at " + base
			}
			return "Invalid config"

		case domain.KindAlreadyChosen,
			domain.KindLimitReached,
			domain.KindPropertyNotOwned,
			domain.KindPropertyAlreadyOwned,
			domain.KindNotAuthorized,
			domain.KindNoPaymentNeeded,
			domain.KindUnexpectedValue:
			return reason(oe, string(oe.Kind))

		default:
			return "Unexpected error (see logs)"
		}
	}

	if looksLikeYAMLProblem(err.Error()) {
		line := extractLine(err.Error())
		if line != "" {
			return "Invalid YAML line " + line
		}
		return "Invalid YAML"
	}

	return "Unexpected error (see logs)"
}

// reason is the innermost message of a rule violation ("Boardwalk is
// already owned by Ann"), without the op and kind prefixes.
func reason(oe *domain.OpError, fallback string) string {
	err := oe.Err
	for err != nil {
		var inner *domain.OpError
		if !errors.As(err, &inner) {
			break
		}
		err = inner.Err
	}
	if err == nil {
		return fallback
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return fallback
	}
	return msg
}

func looksLikeYAMLProblem(s string) bool {
	ls := strings.ToLower(s)
	return strings.Contains(ls, "yaml:") || strings.Contains(ls, "did not find expected") || strings.Contains(ls, "cannot unmarshal")
}

func extractLine(s string) string {
	m := reLine.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}
