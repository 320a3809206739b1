// Package app contains the core application logic: it loads the daemon
// configuration, decodes the global directives and every Plugin block into
// the config record its plugin registered, and hands each record to the
// plugin to build instances. It is decoupled from any specific entrypoint.
package app
