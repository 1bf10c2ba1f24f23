package api

import (
	"fabrie-console/config"
)

// SafeErrorMessage keeps internal error details out of responses
// outside debug mode.
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}
