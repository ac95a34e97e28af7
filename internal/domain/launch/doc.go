// Package launch provides the launch status registry of a restoration session.
//
// A Status is built once from a project and holds one record per
// application. Membership never changes afterwards; only states move:
//
//	waiting -> launched -> launched_and_moved
//	waiting | launched -> failed
//
// Readers (Get, AllLaunched, AllLaunchedAndMoved, GetStatus,
// ExistsSameAppLaunched) share a read lock. Writers (Update,
// UpdateLaunched, UpdateHandle) take the write lock and run the change
// callback before releasing it, so observers see a state that cannot move
// until the callback returns. The callback must not call back into the
// registry.
//
// Untracked applications are never an error for callers: mutations are
// logged and ignored, GetStatus reports failed. Lookup tells the two apart.
package launch
