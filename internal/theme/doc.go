// Package theme tracks a selected appearance mode, resolves it against the
// operating system preference, persists it, and mirrors the resolved
// appearance onto a presentation sink as marker classes.
//
// A Provider owns one theme session. Consumers reach it through a Handle
// carried in a context.Context (see NewContext and FromContext).
package theme
