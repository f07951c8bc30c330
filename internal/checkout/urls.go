package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"storefront_back_end/internal/payment"
)

// URLConfig : une valeur dans la requête l'emporte sur l'override
// d'environnement, qui l'emporte sur la valeur construite depuis ClientURL.
type URLConfig struct {
	ClientURL  string
	SuccessURL string
	CancelURL  string
}

func (c URLConfig) Resolve(successOverride, cancelOverride string) (success, cancel string, err error) {
	base := strings.TrimRight(c.ClientURL, "/")

	success = firstNonEmpty(successOverride, c.SuccessURL,
		base+"/thank-you?session_id="+payment.SessionIDPlaceholder)
	cancel = firstNonEmpty(cancelOverride, c.CancelURL, base+"/")

	sample := strings.ReplaceAll(success, payment.SessionIDPlaceholder, "cs_test_placeholder")
	if err := validateURL(sample); err != nil {
		return "", "", fmt.Errorf("%w: success url %q: %v", ErrInvalidRedirectURL, success, err)
	}
	if err := validateURL(cancel); err != nil {
		return "", "", fmt.Errorf("%w: cancel url %q: %v", ErrInvalidRedirectURL, cancel, err)
	}
	return success, cancel, nil
}

func validateURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
