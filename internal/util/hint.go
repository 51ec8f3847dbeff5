package util

import "strings"

// SubjectHint сокращает sub токена для логов: "auth0|5f1c9a..." -> "auth0|5f1c…"
func SubjectHint(sub string) string {
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return ""
	}
	provider, id, ok := strings.Cut(sub, "|")
	if !ok {
		provider, id = "", sub
	}
	r := []rune(id)
	if len(r) > 4 {
		id = string(r[:4]) + "…"
	}
	if provider == "" {
		return id
	}
	return provider + "|" + id
}
