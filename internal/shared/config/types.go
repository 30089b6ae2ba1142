package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
	AddSource  bool   `mapstructure:"add_source"`
}

// UpstreamConfig points at the O&M backend that owns projects, categories
// and tickets.
type UpstreamConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	AuthToken      string `mapstructure:"auth_token"`
}

func (u *UpstreamConfig) Timeout() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type SessionConfig struct {
	TTLMinutes   int `mapstructure:"ttl_minutes"`
	SweepSeconds int `mapstructure:"sweep_seconds"`
}

func (s *SessionConfig) TTL() time.Duration {
	if s.TTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.TTLMinutes) * time.Minute
}

func (s *SessionConfig) SweepInterval() time.Duration {
	if s.SweepSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(s.SweepSeconds) * time.Second
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}
