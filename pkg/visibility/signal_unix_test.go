//go:build unix

package visibility

import (
	"syscall"
	"testing"
	"time"

	"github.com/vnykmshr/livetime/internal/testutil"
)

func TestSignal_SIGCONT(t *testing.T) {
	s := NewSignal()

	got := make(chan State, 1)
	stop := s.Watch(func(st State) {
		select {
		case got <- st:
		default:
		}
	})
	defer stop()

	testutil.AssertNoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGCONT))

	select {
	case st := <-got:
		testutil.AssertEqual(t, st, Foreground)
	case <-time.After(2 * time.Second):
		t.Fatal("no foreground notification after SIGCONT")
	}
}
