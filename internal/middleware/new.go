package middleware

import (
	"station-alert-srv/pkg/discord"
	"station-alert-srv/pkg/log"
)

type Middleware struct {
	l log.Logger
	d discord.IDiscord
}

// New builds the middleware set. d may be nil.
func New(l log.Logger, d discord.IDiscord) Middleware {
	return Middleware{l: l, d: d}
}
