package config

import "time"

const (
	// Listing
	DefaultPageSize = 10

	// Raise complaint
	DescriptionMinLength = 10
	DescriptionMaxLength = 1000

	// Polling
	NotificationPollInterval = 30 * time.Second
	ComplaintPollInterval    = 60 * time.Second

	// Dashboard
	HotZonePendingAge  = 3 * 24 * time.Hour
	LongPendingAge     = 7 * 24 * time.Hour
	HotZoneLimit       = 3
	RecentLimit        = 3
	AwaitingTriageSize = 5
	AnnouncementsShown = 3

	// Dev backend
	TokenTTL       = 72 * time.Hour
	RequestTimeout = 15 * time.Second
)
