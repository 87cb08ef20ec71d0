package scheduler

import (
	"strconv"
	"testing"
	"time"

	"github.com/vnykmshr/livetime/internal/testutil"
	"github.com/vnykmshr/livetime/pkg/dateprovider"
)

var discard = CallbackFunc(func(string) error { return nil })

func BenchmarkSubscribeUnsubscribe(b *testing.B) {
	clk := testutil.NewMockClockMillis(0)
	s := NewWithConfig(Config{
		Provider: dateprovider.NewNative(dateprovider.Options{Clock: clk}),
		Clock:    clk,
	})
	defer s.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id, err := s.SubscribeNow("%H:%M:%S", "", time.Second, discard)
		if err != nil {
			b.Fatal(err)
		}
		s.Unsubscribe(id)
	}
}

func BenchmarkTick(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			clk := testutil.NewMockClockMillis(0)
			s := NewWithConfig(Config{
				Provider: dateprovider.NewNative(dateprovider.Options{Clock: clk}),
				Clock:    clk,
			})
			defer s.Close()

			for i := 0; i < n; i++ {
				if _, err := s.SubscribeNow("%H:%M:%S", "", time.Second, discard); err != nil {
					b.Fatal(err)
				}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				clk.Advance(time.Second)
			}
		})
	}
}
