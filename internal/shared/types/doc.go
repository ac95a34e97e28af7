// Package types provides shared data structures for the workspace launcher.
//
// Core Types:
//   - Project: Saved workspace with its applications
//   - Application, AppKey: One project entry and its identity
//   - LaunchState: waiting, launched, launched_and_moved, failed
//   - AppLaunchData, LaunchStatusMap: Per-application launch records
//   - Handle: Process and window reference of a launched application
//
// Messages:
//   - StartSessionRequest: HTTP request to restore a project
//   - WSMessage, StatusMessage: WebSocket progress protocol
//
// Example Usage:
//
//	app := types.Application{Name: "Terminal", Path: "/usr/bin/xterm"}
//	status := types.LaunchStatusMap{app.Key(): {App: app, State: types.LaunchWaiting}}
package types
