package utils

import "regexp"

var urlPasswordRegex = regexp.MustCompile(`(:)([^:@/]+)(@)`)

// MaskURL hides the password component of a URL-style address for logging.
func MaskURL(u string) string {
	return urlPasswordRegex.ReplaceAllString(u, ":***@")
}

// MaskSecret hides all but the first two characters of a secret for logging.
func MaskSecret(s string) string {
	if len(s) <= 2 {
		return "***"
	}
	return s[:2] + "***"
}
