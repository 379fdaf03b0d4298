package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values come from env (or an env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App        AppConfig
	VoiceAgent VoiceAgentConfig
	Twilio     TwilioConfig
	Webhook    WebhookConfig
	Auth       AuthConfig
	Redis      RedisConfig
	DB         DBConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// VoiceAgentConfig is required at startup: without the agent platform the
// service cannot place calls and its webhook never fires.
type VoiceAgentConfig struct {
	APIKey        string
	AgentID       string
	PhoneNumberID string
	BaseURL       string
}

// TwilioConfig is intentionally NOT validated at startup. Missing SMS
// credentials must degrade to per-request suppression (the webhook still
// acknowledges), never to a process that refuses to boot.
type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	SenderNumber string
}

type WebhookConfig struct {
	DispatchTimeout time.Duration
	DedupTTL        time.Duration
	CaptureSize     int
}

type AuthConfig struct {
	JWTSecret      string
	JWTIssuer      string
	OpsAPIKey      string
	AccessTokenTTL time.Duration
}

// RedisConfig is optional: empty Addr disables webhook dedup.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DBConfig is optional: empty DSN falls back to in-memory audit storage.
type DBConfig struct {
	DSN string
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	{
		n, err := mustInt("APP_PORT")
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}

	c.VoiceAgent.APIKey = os.Getenv("ELEVENLABS_API_KEY")
	c.VoiceAgent.AgentID = strings.TrimSpace(os.Getenv("ELEVENLABS_AGENT_ID"))
	c.VoiceAgent.PhoneNumberID = strings.TrimSpace(os.Getenv("ELEVENLABS_PHONE_NUMBER_ID"))
	c.VoiceAgent.BaseURL = strings.TrimSpace(os.Getenv("ELEVENLABS_BASE_URL"))

	c.Twilio.AccountSID = strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID"))
	c.Twilio.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	c.Twilio.SenderNumber = strings.TrimSpace(os.Getenv("TWILIO_SENDER_NUMBER"))

	c.Webhook.DispatchTimeout = optDuration("WEBHOOK_DISPATCH_TIMEOUT")
	c.Webhook.DedupTTL = optDuration("WEBHOOK_DEDUP_TTL")
	{
		v := strings.TrimSpace(os.Getenv("WEBHOOK_CAPTURE_SIZE"))
		if v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				parseErrs = append(parseErrs, fmt.Errorf("WEBHOOK_CAPTURE_SIZE must be an integer, got %q", v))
			}
			c.Webhook.CaptureSize = n
		}
	}

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	c.Auth.OpsAPIKey = os.Getenv("OPS_API_KEY")
	c.Auth.AccessTokenTTL = optDuration("JWT_ACCESS_TTL")

	c.Redis.Addr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	c.Redis.Password = os.Getenv("REDIS_PASSWORD")
	{
		v := strings.TrimSpace(os.Getenv("REDIS_DB"))
		if v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				parseErrs = append(parseErrs, fmt.Errorf("REDIS_DB must be an integer, got %q", v))
			}
			c.Redis.DB = n
		}
	}

	c.DB.DSN = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate collects every violation so an operator can fix the whole
// environment in one pass.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	if c.VoiceAgent.APIKey == "" {
		errs = append(errs, errors.New("ELEVENLABS_API_KEY is required"))
	}
	if c.VoiceAgent.AgentID == "" {
		errs = append(errs, errors.New("ELEVENLABS_AGENT_ID is required"))
	}
	if c.VoiceAgent.PhoneNumberID == "" {
		errs = append(errs, errors.New("ELEVENLABS_PHONE_NUMBER_ID is required"))
	}

	// Twilio creds may be partially set, which is always a mistake.
	twilioSet := 0
	for _, v := range []string{c.Twilio.AccountSID, c.Twilio.AuthToken, c.Twilio.SenderNumber} {
		if v != "" {
			twilioSet++
		}
	}
	if twilioSet > 0 && twilioSet < 3 {
		errs = append(errs, errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_SENDER_NUMBER must be set together"))
	}
	if c.Twilio.SenderNumber != "" && !strings.HasPrefix(c.Twilio.SenderNumber, "+") {
		errs = append(errs, fmt.Errorf("TWILIO_SENDER_NUMBER must be E.164, got %q", c.Twilio.SenderNumber))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.OpsAPIKey == "" {
		errs = append(errs, errors.New("OPS_API_KEY is required"))
	}
	if c.IsProduction() && c.Auth.JWTIssuer == "" {
		errs = append(errs, errors.New("JWT_ISSUER is required in production"))
	}

	if c.Webhook.DispatchTimeout <= 0 {
		c.Webhook.DispatchTimeout = 15 * time.Second
	}
	if c.Webhook.DedupTTL <= 0 {
		c.Webhook.DedupTTL = 24 * time.Hour
	}
	if c.Webhook.CaptureSize <= 0 {
		c.Webhook.CaptureSize = 50
	}
	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = 15 * time.Minute
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// SMSConfigured reports whether the service can actually send SMS.
func (c Config) SMSConfigured() bool {
	return c.Twilio.AccountSID != "" && c.Twilio.AuthToken != "" && c.Twilio.SenderNumber != ""
}

func mustInt(key string) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optDuration(key string) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
