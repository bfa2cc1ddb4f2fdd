package validate

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxInstanceNameLength keeps names usable as DNS labels and metric labels
const MaxInstanceNameLength = 63

var instanceNameRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// InstanceName validates a daemon instance name: lowercase letters,
// digits, hyphens and underscores, starting and ending with an
// alphanumeric character.
func InstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("instance name cannot be empty")
	}
	if len(name) > MaxInstanceNameLength {
		return fmt.Errorf("instance name '%s' is longer than %d characters", name, MaxInstanceNameLength)
	}
	if !instanceNameRegex.MatchString(name) {
		return fmt.Errorf("instance name '%s' must contain only lowercase letters [a-z], numbers [0-9], hyphens (-), and underscores (_)", name)
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") ||
		strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		return fmt.Errorf("instance name '%s' cannot start or end with hyphen (-) or underscore (_)", name)
	}
	return nil
}
