package config

import "time"

const (
	// Session titles
	DefaultSessionTitle = "New Analysis"
	TitleMaxLen         = 30
	TitleEllipsis       = "..."

	// Backend protocol
	QueryTypeAuto = "auto"

	// Assistant texts
	GroundedCaption  = "Grounded outputs"
	DefaultGSDPrompt = "Please enter GSD value."

	// User notices
	MissingImageAlert = "Please upload an image first!"

	// Label used when an embedded detection has none
	DefaultDetectionLabel = "detected_object"

	// Overlay file name
	GroundedImageName = "grounded.png"

	// Upload limits
	MaxImageSize = 20 * 1024 * 1024

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Backend request timeout
	RequestTimeout = 90 * time.Second

	// Proxy upstream timeout
	ProxyTimeout = 120 * time.Second

	// Sessions per page
	SessionsPerPage = 5
)
