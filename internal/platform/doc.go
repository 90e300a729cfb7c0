package platform

// Package platform contains OS integration helpers: filesystem setup, the
// per-user Downloads directory, and opening folders in the system file manager.
