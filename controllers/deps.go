package controllers

import (
	"github.com/homecare/homecare-app/presence"
	"github.com/homecare/homecare-app/realtime"
)

// Package-level collaborators wired once at startup, mirroring how db.DB
// is shared.
var (
	Presence *presence.Tracker
	Hub      *realtime.Hub
)

// Wire installs the presence tracker and realtime hub for the handlers.
func Wire(tracker *presence.Tracker, hub *realtime.Hub) {
	Presence = tracker
	Hub = hub
}
