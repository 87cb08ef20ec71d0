//go:build !unix

package visibility

import "os"

var defaultSignals []os.Signal
