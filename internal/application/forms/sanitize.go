package forms

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// sanitizeText strips every tag from raw and returns plain text. The policy
// escapes entities on the way out, so they are decoded again.
func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := textSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// SanitizeValues returns a copy of values safe to hand to a transport
func SanitizeValues(values entities.FormValues) entities.FormValues {
	out := make(entities.FormValues, len(values))
	for name, value := range values {
		out[name] = sanitizeText(value)
	}
	return out
}
