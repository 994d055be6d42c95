package handlers

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

const maxNameLength = 24

// sanitizeName trims a display name and strips control characters.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	out := []rune(b.String())
	if len(out) > maxNameLength {
		out = out[:maxNameLength]
	}
	return string(out)
}

// sanitizePlayerID keeps letters, digits, '-' and '_'.
func sanitizePlayerID(id string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(id) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if len(s) > 64 {
		s = s[:64]
	}
	return s
}

// pagination reads limit/offset query params, clamping limit to [1, max].
func pagination(c *gin.Context, def, max int) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil || limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
