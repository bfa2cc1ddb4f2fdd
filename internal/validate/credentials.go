package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// MinPasswordLength is the shortest accepted basic-auth password.
const MinPasswordLength = 8

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// UsernameFormat validates a basic-auth username. Usernames may contain
// letters, digits, dots, hyphens and underscores, must not start or end
// with punctuation, and cannot contain ':' since that separates the
// username from the password in the Authorization header.
func UsernameFormat(name string) error {
	if name == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if !usernameRegex.MatchString(name) {
		return fmt.Errorf("username '%s' must contain only letters, numbers, dots (.), hyphens (-), and underscores (_)", name)
	}
	if strings.IndexAny(name[:1], "._-") == 0 || strings.IndexAny(name[len(name)-1:], "._-") == 0 {
		return fmt.Errorf("username '%s' cannot start or end with punctuation", name)
	}
	return nil
}

// PasswordStrength validates a basic-auth password. Only length is
// enforced; passwords are stored as bcrypt hashes.
func PasswordStrength(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	// bcrypt ignores bytes beyond 72
	if len(password) > 72 {
		return fmt.Errorf("password must be at most 72 bytes")
	}
	return nil
}
