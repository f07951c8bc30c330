package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLConfig_Resolve_Precedence(t *testing.T) {
	cfg := URLConfig{ClientURL: "https://shop.example.com/"}

	success, cancel, err := cfg.Resolve("", "")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/thank-you?session_id={CHECKOUT_SESSION_ID}", success)
	assert.Equal(t, "https://shop.example.com/", cancel)

	cfg.SuccessURL = "https://env.example.com/ok?session_id={CHECKOUT_SESSION_ID}"
	cfg.CancelURL = "https://env.example.com/cart"
	success, cancel, err = cfg.Resolve("", "")
	require.NoError(t, err)
	assert.Equal(t, cfg.SuccessURL, success)
	assert.Equal(t, cfg.CancelURL, cancel)

	success, cancel, err = cfg.Resolve("https://body.example.com/done", "https://body.example.com/back")
	require.NoError(t, err)
	assert.Equal(t, "https://body.example.com/done", success)
	assert.Equal(t, "https://body.example.com/back", cancel)
}

func TestURLConfig_Resolve_Invalid(t *testing.T) {
	cfg := URLConfig{ClientURL: "https://shop.example.com"}
	for _, tc := range []struct{ success, cancel string }{
		{"not a url", ""},
		{"ftp://shop.example.com/x", ""},
		{"https:///no-host", ""},
		{"", "/relative"},
	} {
		_, _, err := cfg.Resolve(tc.success, tc.cancel)
		assert.ErrorIs(t, err, ErrInvalidRedirectURL, "success=%q cancel=%q", tc.success, tc.cancel)
	}

	_, _, err := URLConfig{}.Resolve("", "")
	assert.ErrorIs(t, err, ErrInvalidRedirectURL)
}
