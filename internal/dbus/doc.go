// Package dbus exports a theme session on the D-Bus session bus.
// Other processes can read the state, select a mode, and follow changes
// through the StateChanged signal.
package dbus
