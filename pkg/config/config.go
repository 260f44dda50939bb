package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	LLM       LLMConfig
	GigaChat  GigaChatConfig
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Knowledge KnowledgeConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32 // 0 keeps the pgxpool default
}

// JWTConfig controls decoding of the optional Authorization header. With an
// empty SecretKey tokens are decoded without signature verification.
type JWTConfig struct {
	SecretKey string
}

type LLMConfig struct {
	Provider      string // gigachat, gemini or openai
	StrictModel   string
	FreeModel     string
	CallTimeout   time.Duration // 0 disables the per-call deadline
	AssistantName string
	Institution   string
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
	ChatURL            string // empty keeps the gigago default
	OAuthURL           string // empty keeps the gigago default
}

type GeminiConfig struct {
	APIKey  string
	BaseURL string // empty keeps the genai default
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

type KnowledgeConfig struct {
	Source string // file or postgres
	Path   string // empty means the embedded default data
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work too (Docker/K8s)
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "120"))
	callTimeout, _ := strconv.Atoi(getEnv("LLM_CALL_TIMEOUT", "60"))
	maxConns, _ := strconv.Atoi(getEnv("DB_MAX_CONNS", "0"))
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	provider := getEnv("LLM_PROVIDER", "gigachat")

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "ritcompass"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: int32(maxConns),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", ""),
		},
		LLM: LLMConfig{
			Provider:      provider,
			StrictModel:   getEnv("LLM_STRICT_MODEL", defaultModel(provider)),
			FreeModel:     getEnv("LLM_FREE_MODEL", defaultModel(provider)),
			CallTimeout:   time.Duration(callTimeout) * time.Second,
			AssistantName: getEnv("ASSISTANT_NAME", "RITCompass"),
			Institution:   getEnv("ASSISTANT_INSTITUTION", "RIT"),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			InsecureSkipVerify: insecureSkipVerify,
			ChatURL:            getEnv("GIGACHAT_CHAT_URL", ""),
			OAuthURL:           getEnv("GIGACHAT_OAUTH_URL", ""),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			BaseURL: getEnv("GEMINI_BASE_URL", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		},
		Knowledge: KnowledgeConfig{
			Source: getEnv("KNOWLEDGE_SOURCE", "file"),
			Path:   getEnv("KNOWLEDGE_PATH", ""),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func defaultModel(provider string) string {
	switch provider {
	case "gemini":
		return "gemini-2.0-flash"
	case "openai":
		return "gpt-4o-mini"
	default:
		return "GigaChat"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
