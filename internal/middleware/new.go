package middleware

import (
	"intent-assistant/config"
	"intent-assistant/pkg/log"
)

type Middleware struct {
	l    log.Logger
	cors config.CORSConfig
}

func New(l log.Logger, cors config.CORSConfig) Middleware {
	return Middleware{
		l:    l,
		cors: cors,
	}
}
