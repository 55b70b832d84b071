package server

import "time"

type Config struct {
	ListenAddr     string
	MaxClients     int
	MaxMessageSize int64
	// CommandTimeout bounds how long a command waits for the game loop.
	CommandTimeout time.Duration
	WriteTimeout   time.Duration
	SendBuffer     int
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:     "127.0.0.1:7777",
		MaxClients:     16,
		MaxMessageSize: 64 * 1024,
		CommandTimeout: 2 * time.Second,
		WriteTimeout:   5 * time.Second,
		SendBuffer:     64,
	}
}
