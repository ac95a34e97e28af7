// Package desktop provides the OS-facing collaborators of a restoration:
// ExecLauncher starts applications, PlacementRecorder stands in for the
// window mover and records where each window belongs.
package desktop
