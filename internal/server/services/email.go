package services

import "regexp"

// emailPattern accepts local@domain.tld shapes: non-empty local part, a
// single @, a domain with at least one dot, no embedded whitespace.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

func isValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
