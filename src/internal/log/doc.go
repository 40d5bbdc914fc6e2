// Package log provides simple leveled logging for hostnet.
//
// Messages are written with a colored level prefix: DEBUG, INFO, WARN and
// ERROR. Debug output is only shown in verbose mode. Errors go to stderr,
// everything else to stdout unless SetForceStdErr is enabled (the "show"
// command does that so its own stdout stays machine-readable).
//
// # Example Usage
//
//	log.Infof("Loading settings for %d interfaces", n)
//	log.Warnf("Ignoring %s: %v", path, err)
//
//	log.SetVerbose(true)
//	log.Debugf("Merged record: %+v", rec)
//
// The package uses global state for simplicity. Writes are serialized so
// the API server can log from concurrent handlers.
package log
