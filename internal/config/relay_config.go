package config

import "time"

const (
	// Relay connection tuning
	RelayWriteWait      = 10 * time.Second
	RelayPongWait       = 60 * time.Second
	RelayPingPeriod     = (RelayPongWait * 9) / 10
	RelayMaxMessageSize = 1 << 16
	RelaySendQueueSize  = 256

	// Abuse containment: a connection producing more malformed messages
	// than this is closed.
	RelayMalformedLimit = 10

	// Event store
	RelayStoreCapacity    = 10000
	RelayDefaultReplayCap = 500

	// ContentStore
	ContentOpTimeout = 10 * time.Second

	// Presence sweep: a user with no activity for this long is marked offline.
	PresenceStaleAfter = 15 * time.Minute
)
