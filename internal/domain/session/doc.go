// Package session runs workspace restoration sessions.
//
// A Manager starts one session at a time for a project. Each session owns
// a launch.Status registry whose changes are forwarded to a Publisher
// (the WebSocket hub) and runs the launcher.Coordinator in the background.
// Sessions live in memory only and are discarded with the process.
//
// Example Usage:
//
//	manager := session.NewManager(coordinator, hub, logger)
//	s, err := manager.Start(ctx, project)
//	result, err := manager.Wait(ctx, s.ID.String())
package session
