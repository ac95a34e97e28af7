// Package launcher restores a workspace project.
//
// A Coordinator runs one worker per application, bounded by an errgroup
// limit and paced by a rate limiter. Each worker launches its application
// through a Launcher, records the handle, asks a WindowMover to place the
// window and reports every step to a launch.Status:
//
//	Update(Failed)          launch error
//	UpdateHandle(Launched)  launch ok
//	Update(Failed)          move error
//	UpdateLaunched(Moved)   move ok
//
// Entries sharing a launch target are launched one after another: the next
// one starts only when the previous left the launched state. When the
// session deadline passes every unfinished entry is marked failed.
// Retrying failed launches is left to the Launcher.
package launcher
