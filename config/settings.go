package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings is read once at startup from the environment (and .env when present).
type Settings struct {
	Port   string `envconfig:"PORT" default:"8080"`
	AppEnv string `envconfig:"APP_ENV" default:"dev"`

	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBDriver    string `envconfig:"DB_DRIVER"`
	DBHost      string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort      string `envconfig:"DB_PORT" default:"3306"`
	DBUser      string `envconfig:"DB_USER" default:"root"`
	DBPass      string `envconfig:"DB_PASS"`
	DBName      string `envconfig:"DB_NAME" default:"singsing"`

	CorsOrigins string `envconfig:"CORS_ORIGINS"`

	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"720"`

	SolapiAPIKey      string  `envconfig:"SOLAPI_API_KEY"`
	SolapiAPISecret   string  `envconfig:"SOLAPI_API_SECRET"`
	SolapiSender      string  `envconfig:"SOLAPI_SENDER"`
	SolapiBaseURL     string  `envconfig:"SOLAPI_BASE_URL" default:"https://api.solapi.com"`
	KakaoPfID         string  `envconfig:"KAKAO_PF_ID"`
	MessageRatePerSec float64 `envconfig:"MESSAGE_RATE_PER_SEC" default:"10"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`

	SendgridAPIKey string `envconfig:"SENDGRID_API_KEY"`
	MailFrom       string `envconfig:"MAIL_FROM" default:"noreply@singsingtour.com"`
	MailFromName   string `envconfig:"MAIL_FROM_NAME" default:"싱싱골프투어"`

	RedisURL        string        `envconfig:"REDIS_URL"`
	PortalBaseURL   string        `envconfig:"PORTAL_BASE_URL" default:"http://localhost:3000"`
	PortalCacheTTL  time.Duration `envconfig:"PORTAL_CACHE_TTL" default:"60s"`
	PublicRateLimit float64       `envconfig:"PUBLIC_RATE_LIMIT" default:"5"`
}

func (s Settings) IsDev() bool {
	return strings.EqualFold(s.AppEnv, "dev") || strings.EqualFold(s.AppEnv, "development")
}

// CorsOriginList splits CORS_ORIGINS; an empty value means any origin.
func (s Settings) CorsOriginList() []string {
	raw := strings.TrimSpace(s.CorsOrigins)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func Load() (Settings, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	var s Settings
	err := envconfig.Process("", &s)
	return s, err
}
