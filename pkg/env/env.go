package env

import (
	"os"
	"strings"
)

// Get reads an environment variable, falling back to def when it is unset or
// blank. Blank counts as unset because systemd unit files tend to leave
// empty assignments behind.
func Get(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}
