package backend

import (
	"fmt"

	"github.com/google/shlex"
)

// splitCustomCommand splits a user-provided shell command line (e.g. from
// --backend-command) into an executable and its arguments, honoring quoting
// the way a shell would.
func splitCustomCommand(line string) (command string, args []string, err error) {
	parts, err := shlex.Split(line)
	if err != nil {
		return "", nil, err
	}
	if len(parts) == 0 {
		return "", nil, fmt.Errorf("empty command")
	}
	return parts[0], parts[1:], nil
}
