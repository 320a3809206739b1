// Package registry maps plugin names, as they appear in Plugin blocks, to
// the compiled Go parts of each plugin: a factory for its config record and
// the function that turns a decoded config into running instances.
//
// The registry is populated at startup and validated before any
// configuration is decoded, so a config record the engine cannot decode is
// reported as a wiring error instead of a confusing decode failure.
package registry
