package server

import "context"

type Server interface {
	Init() error
	Start() error
	Stop(ctx context.Context) error
}

type ServerConfig struct {
	Host string
	Port int
	Type string
	Name string
}
