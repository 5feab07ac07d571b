package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizePhone limpa o número e garante o DDI. Números de 10/11 dígitos
// sem código de país ganham o DDI default (55 = Brasil).
func NormalizePhone(phone, defaultCountryCode string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) <= 11 && !strings.HasPrefix(digits, defaultCountryCode) {
		digits = defaultCountryCode + digits
	}
	return digits
}

// BuildLink monta o link click-to-chat (wa.me) com a mensagem pré-preenchida
func BuildLink(phone, message string) string {
	normalized := NormalizePhone(phone, "55")
	if normalized == "" {
		return ""
	}
	if message == "" {
		return fmt.Sprintf("https://wa.me/%s", normalized)
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", normalized, url.QueryEscape(message))
}
