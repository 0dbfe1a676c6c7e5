package main

import "time"

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=info"`
	Host           string `env:"HOST,default=localhost"`
	Port           int    `env:"PORT,default=8080"`
	CORSOrigins    string `env:"CORS_ORIGINS"`

	AuthTokenSecret   string        `env:"AUTH_TOKEN_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	ModerationBaseURL   string        `env:"MODERATION_BASE_URL,default=https://api.openai.com"`
	ModerationAPIKey    string        `env:"OPENAI_KEY,required=true"`
	ModerationModel     string        `env:"MODERATION_MODEL,default=omni-moderation-latest"`
	ModerationThreshold float64       `env:"MODERATION_THRESHOLD,default=0.01"`
	ModerationTimeout   time.Duration `env:"MODERATION_TIMEOUT,default=5s"`

	RoomCodeAttempts int `env:"ROOM_CODE_ATTEMPTS,default=5"`
}
