package http

import (
	"station-alert-srv/internal/alert"
	"station-alert-srv/pkg/discord"
	"station-alert-srv/pkg/log"
)

type Handler struct {
	l      log.Logger
	uc     alert.UseCase
	engine alert.Engine
	d      discord.IDiscord
}

// New builds the alert handler. engine and d may be nil.
func New(l log.Logger, uc alert.UseCase, engine alert.Engine, d discord.IDiscord) *Handler {
	return &Handler{
		l:      l,
		uc:     uc,
		engine: engine,
		d:      d,
	}
}
