package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	// Formatos comuns de entrada do front e dos webhooks
	assert.Equal(t, "5511988887777", NormalizePhone("(11) 98888-7777", "55"))
	assert.Equal(t, "5511988887777", NormalizePhone("11988887777", "55"))
	assert.Equal(t, "5511988887777", NormalizePhone("+55 11 98888-7777", "55"))
	assert.Equal(t, "551133334444", NormalizePhone("1133334444", "55")) // fixo, 10 dígitos
	assert.Equal(t, "", NormalizePhone("sem numero", "55"))
}

func TestBuildLink(t *testing.T) {
	link := BuildLink("(11) 98888-7777", "Olá Maria, tudo bem?")
	assert.Equal(t, "https://wa.me/5511988887777?text=Ol%C3%A1+Maria%2C+tudo+bem%3F", link)

	// Sem mensagem o link não leva query string
	assert.Equal(t, "https://wa.me/5511988887777", BuildLink("11988887777", ""))

	// Telefone vazio não gera link
	assert.Equal(t, "", BuildLink("", "oi"))
}
