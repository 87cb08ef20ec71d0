//go:build unix

package visibility

import (
	"os"
	"syscall"
)

var defaultSignals = []os.Signal{syscall.SIGCONT}
