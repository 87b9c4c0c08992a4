package validators

import "strings"

// passwordSymbols is the set of special characters a registration password
// must draw from.
const passwordSymbols = "!@#$%^&*()-+="

// MinPasswordLength is the minimum accepted registration password length.
const MinPasswordLength = 12

// IsStrongPassword reports whether the candidate password is acceptable for
// account creation: at least MinPasswordLength characters with at least one
// uppercase ASCII letter, one lowercase ASCII letter, one decimal digit and
// one symbol from passwordSymbols.
func IsStrongPassword(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, c):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}
