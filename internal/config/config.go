package config

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%s", c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

type MongoConfig struct {
	URI      string
	Database string
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type AuthConfig struct {
	Secret   []byte
	TokenTTL time.Duration
}

type HandlerConfig struct {
	ClientOrigin string
	CookieName   string
	CookieMaxAge time.Duration
	SecureCookie bool
	MaxUpload    int64
}

type MediaConfig struct {
	Origin  string
	APIKey  string
	Folder  string
	Timeout time.Duration
}

type SearchConfig struct {
	Addresses []string
	Index     string
}

type ServiceConfig struct {
	Auth     AuthConfig
	CacheTTL time.Duration
	MaxLimit int
}
