/*
Package scheduling groups the components that drive live time displays.

  - scheduler: coalesces subscriptions onto one aligned timer and publishes
    their values

The scheduler delegates date arithmetic to package dateprovider, parses host
intervals with package interval and listens for foreground transitions through
package visibility.

	sched := scheduler.New(dateprovider.Default())
	defer sched.Close()

	sched.SubscribeRelative(posted, 30*time.Second, false, "", cb)
*/
package scheduling
