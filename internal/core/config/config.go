package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string
	Port              int
	ReadTimeoutSec    int
	WriteTimeoutSec   int
	IdleTimeoutSec    int
	RequestTimeoutSec int
	MaxBodyMB         int64
	RateLimitRPS      float64
	RateLimitBurst    int
	AuthRPS           float64 // per-IP limit on /auth
	AuthBurst         int
	MaxConcurrent     int64
	CORSOrigins       []string
}

type App struct {
	Name      string
	Env       string
	BaseURL   string // public URL used in emails
	LoginPath string // HTML clients are redirected here when unauthenticated
	HTTP      HTTP
}

type Log struct {
	Level      string
	JSON       bool
	File       string // empty disables file rotation
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
	Cookie            string
	CookieSecure      bool
}

type Session struct {
	Store        string // db | redis
	Cookie       string
	TTLHours     int
	PruneSpec    string // cron spec for expired-session cleanup
	IssueOnLogin bool   // login issues a session instead of a token
}

type OAuthProvider struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type OAuth struct {
	Google OAuthProvider
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Cache struct {
	TTLSec int
}

type DB struct {
	Driver             string // postgres | mysql | memory
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type SMTP struct {
	Host        string // empty logs messages instead of sending them
	Port        int
	Username    string
	Password    string
	From        string
	AdminTo     []string
	TimeoutSec  int
	MaxInFlight int64
}

type Media struct {
	Driver       string // cloudinary | local
	Folder       string
	CloudName    string
	APIKey       string
	APISecret    string
	LocalDir     string
	LocalBaseURL string
	TimeoutSec   int
	MaxSizeMB    int64
}

type Adoption struct {
	AutoDenySiblings bool
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	Session  Session
	OAuth    OAuth
	DB       DB
	Redis    Redis `mapstructure:"redis"`
	Cache    Cache
	SMTP     SMTP
	Media    Media
	Adoption Adoption
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "doggy-rescue")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.baseURL", "http://127.0.0.1:8080")
	v.SetDefault("app.loginPath", "/auth/login-page")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 15)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.requestTimeoutSec", 10)
	v.SetDefault("app.http.maxBodyMB", 16)
	v.SetDefault("app.http.rateLimitRPS", 200)
	v.SetDefault("app.http.rateLimitBurst", 400)
	v.SetDefault("app.http.authRPS", 2)
	v.SetDefault("app.http.authBurst", 10)
	v.SetDefault("app.http.maxConcurrent", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "doggy-rescue")
	v.SetDefault("jwt.accessTokenTTLMin", 60*24)
	v.SetDefault("jwt.cookie", "token")
	v.SetDefault("session.store", "db")
	v.SetDefault("session.cookie", "sid")
	v.SetDefault("session.ttlHours", 30*24)
	v.SetDefault("session.pruneSpec", "@every 15m")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("cache.ttlSec", 60)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.timeoutSec", 15)
	v.SetDefault("smtp.maxInFlight", 8)
	v.SetDefault("media.driver", "local")
	v.SetDefault("media.folder", "doggy-rescue")
	v.SetDefault("media.localDir", "./uploads")
	v.SetDefault("media.localBaseURL", "/uploads")
	v.SetDefault("media.timeoutSec", 20)
	v.SetDefault("media.maxSizeMB", 8)
	v.SetDefault("adoption.autoDenySiblings", false)
}

// Load reads .env (if present), then the YAML file, then APP_* overrides.
func Load(path string) *Config {
	_ = godotenv.Load()
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	if c.JWT.Secret == "" {
		log.Fatalf("config: jwt.secret is required")
	}
	return &c
}
