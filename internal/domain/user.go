package domain

import (
	"time"
)

// Identity is the signed-in chat user. Nothing about it is verified.
type Identity struct {
	TelegramID int64
	FullName   string
	Username   string
	SignedInAt time.Time
}

func (i *Identity) DisplayName() string {
	if i == nil {
		return "there"
	}
	if i.FullName != "" {
		return i.FullName
	}
	if i.Username != "" {
		return "@" + i.Username
	}
	return "there"
}
