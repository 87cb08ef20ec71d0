/*
Package dateprovider supplies the date arithmetic and formatting the scheduler
delegates to.

A Provider reports a fixed capability descriptor at construction time. Callers
check the descriptor once instead of probing for optional features on every call:

	p := dateprovider.NewNative(dateprovider.Options{Timezone: true, Duration: true})
	caps := p.Capabilities()
	if !caps.SupportsTimezone {
		// subscriptions with a timezone will be rejected
	}

The native provider formats with strftime directives (%Y-%m-%d %H:%M:%S) and
humanizes offsets the way go-humanize does ("3 minutes ago", "2 hours from now").

# One-shot operations

Format, FromNow, ToNow, Add, Subtract, DurationHumanize and Until compute a single
value without registering a subscription. They return ErrMissingProvider for a
nil provider and a CapabilityError when the provider cannot serve the request.

	s, err := dateprovider.FromNow(p, posted, false, "")
	// "5 minutes ago"
*/
package dateprovider
