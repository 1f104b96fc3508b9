package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wibowo/causal-football/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	APIToken                string
	IngestToken             string

	TelegramBotToken             string
	TelegramChatID               string
	TelegramTimeout              time.Duration
	TelegramCircuitEnabled       bool
	TelegramCircuitFailureCount  int
	TelegramCircuitOpenTimeout   time.Duration
	TelegramCircuitHalfOpenMaxRq int

	FootballDataBaseURL             string
	FootballDataAPIKey              string
	FootballDataTimezone            string
	FootballDataTimeout             time.Duration
	FootballDataMaxRetries          int
	FootballDataCircuitEnabled      bool
	FootballDataCircuitFailureCnt   int
	FootballDataCircuitOpenTimeout  time.Duration
	FootballDataCircuitHalfOpenMax  int

	SchedulerEnabled bool
	DigestLeagueID   string
	PushHourUTC      int
	PushMinuteUTC    int

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	UptraceCaptureRequestBody  bool
	UptraceRequestBodyMaxBytes int
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	uptraceCaptureRequestBody, err := strconv.ParseBool(getEnv("UPTRACE_CAPTURE_REQUEST_BODY", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_CAPTURE_REQUEST_BODY: %w", err)
	}
	uptraceRequestBodyMaxBytes, err := getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if uptraceRequestBodyMaxBytes <= 0 {
		return Config{}, fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	telegramTimeout, err := time.ParseDuration(getEnv("TELEGRAM_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_TIMEOUT: %w", err)
	}
	if telegramTimeout <= 0 {
		return Config{}, fmt.Errorf("TELEGRAM_TIMEOUT must be > 0")
	}
	telegramCircuitEnabled, err := strconv.ParseBool(getEnv("TELEGRAM_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_CIRCUIT_ENABLED: %w", err)
	}
	telegramCircuitFailureCount, err := getEnvAsInt("TELEGRAM_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if telegramCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("TELEGRAM_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	telegramCircuitOpenTimeout, err := time.ParseDuration(getEnv("TELEGRAM_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if telegramCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("TELEGRAM_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	telegramCircuitHalfOpenMaxReq, err := getEnvAsInt("TELEGRAM_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if telegramCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("TELEGRAM_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	footballDataTimeout, err := time.ParseDuration(getEnv("FOOTBALL_DATA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_TIMEOUT: %w", err)
	}
	if footballDataTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_TIMEOUT must be > 0")
	}
	footballDataMaxRetries, err := getEnvAsInt("FOOTBALL_DATA_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_MAX_RETRIES: %w", err)
	}
	if footballDataMaxRetries < 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_MAX_RETRIES must be >= 0")
	}
	footballDataCircuitEnabled, err := strconv.ParseBool(getEnv("FOOTBALL_DATA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_ENABLED: %w", err)
	}
	footballDataCircuitFailureCount, err := getEnvAsInt("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if footballDataCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	footballDataCircuitOpenTimeout, err := time.ParseDuration(getEnv("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if footballDataCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	footballDataCircuitHalfOpenMaxReq, err := getEnvAsInt("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if footballDataCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	schedulerEnabled, err := strconv.ParseBool(getEnv("SCHEDULER_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCHEDULER_ENABLED: %w", err)
	}
	pushHour, err := getEnvAsInt("PUSH_HOUR_UTC", 9)
	if err != nil {
		return Config{}, fmt.Errorf("parse PUSH_HOUR_UTC: %w", err)
	}
	if pushHour < 0 || pushHour > 23 {
		return Config{}, fmt.Errorf("PUSH_HOUR_UTC must be in [0,23]")
	}
	pushMinute, err := getEnvAsInt("PUSH_MINUTE", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse PUSH_MINUTE: %w", err)
	}
	if pushMinute < 0 || pushMinute > 59 {
		return Config{}, fmt.Errorf("PUSH_MINUTE must be in [0,59]")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "causal-football-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		APIToken:                strings.TrimSpace(getEnv("API_TOKEN", "")),
		IngestToken:             strings.TrimSpace(getEnv("INGEST_TOKEN", "")),

		TelegramBotToken:             strings.TrimSpace(getEnv("TELEGRAM_BOT_TOKEN", "")),
		TelegramChatID:               strings.TrimSpace(getEnv("TELEGRAM_CHAT_ID", "")),
		TelegramTimeout:              telegramTimeout,
		TelegramCircuitEnabled:       telegramCircuitEnabled,
		TelegramCircuitFailureCount:  telegramCircuitFailureCount,
		TelegramCircuitOpenTimeout:   telegramCircuitOpenTimeout,
		TelegramCircuitHalfOpenMaxRq: telegramCircuitHalfOpenMaxReq,

		FootballDataBaseURL:            strings.TrimSpace(getEnv("FOOTBALL_DATA_BASE_URL", "https://v3.football.api-sports.io")),
		FootballDataAPIKey:             strings.TrimSpace(getEnv("FOOTBALL_DATA_API_KEY", "")),
		FootballDataTimezone:           strings.TrimSpace(getEnv("FOOTBALL_DATA_TIMEZONE", "UTC")),
		FootballDataTimeout:            footballDataTimeout,
		FootballDataMaxRetries:         footballDataMaxRetries,
		FootballDataCircuitEnabled:     footballDataCircuitEnabled,
		FootballDataCircuitFailureCnt:  footballDataCircuitFailureCount,
		FootballDataCircuitOpenTimeout: footballDataCircuitOpenTimeout,
		FootballDataCircuitHalfOpenMax: footballDataCircuitHalfOpenMaxReq,

		SchedulerEnabled: schedulerEnabled,
		DigestLeagueID:   strings.TrimSpace(getEnv("DIGEST_LEAGUE_ID", "39")),
		PushHourUTC:      pushHour,
		PushMinuteUTC:    pushMinute,

		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		UptraceCaptureRequestBody:  uptraceCaptureRequestBody,
		UptraceRequestBodyMaxBytes: uptraceRequestBodyMaxBytes,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

// MissingKeys lists the env keys the service can start without but is
// degraded without. Surfaced on /healthz.
func (c Config) MissingKeys() []string {
	missing := make([]string, 0, 6)
	if c.DBURL == "" {
		missing = append(missing, "DB_URL")
	}
	if c.TelegramBotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.TelegramChatID == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if c.FootballDataAPIKey == "" {
		missing = append(missing, "FOOTBALL_DATA_API_KEY")
	}
	if c.APIToken == "" {
		missing = append(missing, "API_TOKEN")
	}
	if c.IngestToken == "" {
		missing = append(missing, "INGEST_TOKEN")
	}
	return missing
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
