//go:build !windows

package notification

// PlatformSender returns fallback; only Windows has a native sender.
func PlatformSender(fallback Sender) Sender { return fallback }
