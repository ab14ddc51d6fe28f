package main

import "time"

type Config struct {
	Host string `env:"HOST,default=localhost"`
	Port int    `env:"PORT,default=8080"`

	OpsPort int `env:"OPS_PORT,default=8081"`

	Version           string        `env:"SERVER_VERSION,default=dev"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=25s"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT,default=60s"`
	SendBufferSize    int           `env:"SEND_BUFFER_SIZE,default=256"`

	BadgerFilepath string        `env:"BADGER_FILEPATH,required=true"`
	ActionTTL      time.Duration `env:"ACTION_TTL,default=24h"`
	LimitTraces    *int          `env:"LIMIT_TRACES"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL,default=1m"`
	SweepGrace    time.Duration `env:"SWEEP_GRACE,default=10m"`
	StorageGCTick time.Duration `env:"STORAGE_GC_TICK,default=10m"`

	AuthSecret        string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}
