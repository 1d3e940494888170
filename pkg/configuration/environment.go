package configuration

import (
	"fmt"
	"io"
	"log"
	"math"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/person-directory/pkg/logging"
)

const Production = "production"

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

const (
	PolicyDegrade = "degrade"
	PolicyStrict  = "strict"
)

var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnv loads the env files found in the working directory. When none exist
// there, the nearest ancestor holding a go.mod is tried instead.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := existing(envFiles, "")
	if len(existingFiles) == 0 {
		if root, ok := moduleRoot(); ok {
			existingFiles = existing(envFiles, root)
		}
	}
	if len(existingFiles) == 0 {
		return 0, nil
	}
	return len(existingFiles), godotenv.Load(existingFiles...)
}

func existing(envFiles []string, dir string) []string {
	out := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		path := file
		if dir != "" {
			path = filepath.Join(dir, file)
		}
		if fs.FileExists(path) {
			out = append(out, path)
		}
	}
	return out
}

func moduleRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if fs.FileExists(filepath.Join(dir, "go.mod")) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

var defaultPorts = map[string]string{
	DriverPostgres: "5432",
	DriverMySQL:    "3306",
}

type DatabaseOptions struct {
	Driver   string `env:"DB_DRIVER" envDefault:"postgres" help:"storage engine: postgres or mysql"`
	Name     string `env:"DB_NAME" envDefault:"person" help:"database name"`
	Host     string `env:"DB_HOST" envDefault:"localhost" help:"database host"`
	Port     string `env:"DB_PORT" help:"database port (default 5432 for postgres, 3306 for mysql)"`
	User     string `env:"DB_USER" envDefault:"postgres" help:"database user"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres" help:"database password"`
	MaxConns int    `env:"DB_MAX_CONNS" envDefault:"5" help:"connection pool size"`
}

// ConnectionString returns a libpq key/value DSN understood by both pgx and lib/pq.
func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

// MySQLDSN returns a go-sql-driver/mysql DSN.
func (d *DatabaseOptions) MySQLDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(d.Host, d.Port)
	cfg.DBName = d.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

func (d *DatabaseOptions) Validate() error {
	switch d.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("invalid DB_DRIVER=%q (expected postgres|mysql)", d.Driver)
	}
	if d.MaxConns <= 0 || d.MaxConns > math.MaxInt32 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and %d, got %d", math.MaxInt32, d.MaxConns)
	}
	if d.Port == "" {
		d.Port = defaultPorts[d.Driver]
	}
	port, err := strconv.Atoi(d.Port)
	if err != nil {
		return fmt.Errorf("invalid DB_PORT=%q: %w", d.Port, err)
	}
	if port <= 0 || port > 65535 {
		return fmt.Errorf("DB_PORT out of range: %d", port)
	}
	return nil
}

type OpenTelemetryOptions struct {
	Enabled      bool   `env:"OTEL_ENABLED" envDefault:"false" help:"export traces over OTLP/HTTP"`
	CollectorURL string `env:"OTEL_COLLECTOR_URL" envDefault:"localhost:4318" help:"OTLP/HTTP collector endpoint"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"" help:"service name reported in traces"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false" help:"expose prometheus metrics"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus" help:"prometheus metrics path"`
}

type RateLimitOptions struct {
	Enabled   bool   `env:"RATE_LIMIT_ENABLED" envDefault:"false" help:"enable the global rate limit"`
	GlobalRPS int    `env:"RATE_LIMIT_GLOBAL_RPS" envDefault:"1000" help:"requests per second per client"`
	Storage   string `env:"RATE_LIMIT_STORAGE" envDefault:"memory" help:"rate limit store: memory or redis"`
	RedisURL  string `env:"RATE_LIMIT_REDIS_URL" help:"redis URL for the rate limit store"`
}

// Validate checks the rate limit configuration for errors
func (r *RateLimitOptions) Validate() error {
	if r.GlobalRPS < 0 {
		return fmt.Errorf("rate limit GlobalRPS must be non-negative, got %d", r.GlobalRPS)
	}
	if r.GlobalRPS > 1000000 {
		return fmt.Errorf("rate limit GlobalRPS too high, maximum is 1,000,000, got %d", r.GlobalRPS)
	}
	if r.Storage != "memory" && r.Storage != "redis" {
		return fmt.Errorf("rate limit Storage must be 'memory' or 'redis', got '%s'", r.Storage)
	}
	if r.Storage == "redis" && r.RedisURL == "" {
		return fmt.Errorf("rate limit RedisURL is required when Storage is 'redis'")
	}
	return nil
}

// Configuration holds the settings shared by both services.
type Configuration struct {
	OpenTelemetry OpenTelemetryOptions
	Prometheus    PrometheusOptions
	RateLimit     RateLimitOptions

	Address           string        `env:"ADDRESS" envDefault:"0.0.0.0" help:"address to listen on"`
	GoAppEnvironment  string        `env:"GO_APP_ENV" envDefault:"development" help:"development or production"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info" help:"silent, error, warn, info or debug"`
	LogPath           string        `env:"LOG_PATH" help:"optional rotated log file"`
	CorsOrigins       string        `env:"CORS_ALLOWED_ORIGINS" envDefault:"" help:"comma separated allowed CORS origins"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" help:"graceful shutdown deadline"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s" help:"HTTP read header timeout"`
	// The request id is taken from this header when present, otherwise a uuid v4 is generated.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID" help:"request id header"`
	// Client address is taken from this header when present, otherwise from RemoteAddr.
	RealIPHeader string `env:"REAL_IP_HEADER" envDefault:"X-Real-IP" help:"real client ip header"`

	logCloser io.Closer
	logger    *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	if c.logger == nil {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel())
	}
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	return logging.ParseLevel(c.LogLevel)
}

func (c *Configuration) AllowedOrigins() []string {
	var out []string
	for _, part := range strings.Split(c.CorsOrigins, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *Configuration) socketAddress(port int) string {
	return net.JoinHostPort(c.Address, strconv.Itoa(port))
}

func (c *Configuration) validate() error {
	switch c.LogLevel {
	case "silent", "error", "warn", "info", "debug":
	default:
		return fmt.Errorf("invalid LOG_LEVEL=%q (expected silent|error|warn|info|debug)", c.LogLevel)
	}
	if c.Prometheus.Enabled && !strings.HasPrefix(c.Prometheus.Path, "/") {
		return fmt.Errorf("PROMETHEUS_METRICS_PATH must start with '/', got %q", c.Prometheus.Path)
	}
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate limit configuration error: %w", err)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

func (c *Configuration) setup() error {
	closer, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logCloser = closer
	c.logger = logger
	return nil
}

// Unload releases the log file, if any.
func (c *Configuration) Unload() {
	if c.logCloser != nil {
		if err := c.logCloser.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}

type PersonConfiguration struct {
	Configuration
	Database DatabaseOptions

	Port         int           `env:"PORT" envDefault:"8080" help:"port to listen on"`
	Migrate      bool          `env:"MIGRATE" envDefault:"true" help:"apply schema migrations on startup"`
	ReadyTimeout time.Duration `env:"READY_TIMEOUT" envDefault:"2s" help:"readiness probe query timeout"`
}

func (c *PersonConfiguration) SocketAddress() string {
	return c.socketAddress(c.Port)
}

func (c *PersonConfiguration) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.ReadyTimeout <= 0 {
		return fmt.Errorf("READY_TIMEOUT must be positive, got %s", c.ReadyTimeout)
	}
	return nil
}

// Setup validates the configuration and builds the logger.
func (c *PersonConfiguration) Setup() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.OpenTelemetry.ServiceName == "" {
		c.OpenTelemetry.ServiceName = "person"
	}
	return c.setup()
}

type FrontendConfiguration struct {
	Configuration

	Port                  int           `env:"PORT" envDefault:"3000" help:"port to listen on"`
	PersonURL             string        `env:"PERSON_URL" envDefault:"http://localhost:8080" help:"base URL of the person service"`
	UpstreamTimeout       time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s" help:"timeout of calls to the person service"`
	UpstreamFailurePolicy string        `env:"UPSTREAM_FAILURE_POLICY" envDefault:"degrade" help:"degrade or strict"`
}

func (c *FrontendConfiguration) SocketAddress() string {
	return c.socketAddress(c.Port)
}

func (c *FrontendConfiguration) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.PersonURL) == "" {
		return fmt.Errorf("PERSON_URL is required")
	}
	c.PersonURL = strings.TrimRight(strings.TrimSpace(c.PersonURL), "/")
	policy := strings.ToLower(strings.TrimSpace(c.UpstreamFailurePolicy))
	switch policy {
	case PolicyDegrade, PolicyStrict:
	default:
		return fmt.Errorf("invalid UPSTREAM_FAILURE_POLICY=%q (expected degrade|strict)", c.UpstreamFailurePolicy)
	}
	c.UpstreamFailurePolicy = policy
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}

// Setup validates the configuration and builds the logger.
func (c *FrontendConfiguration) Setup() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.OpenTelemetry.ServiceName == "" {
		c.OpenTelemetry.ServiceName = "frontend"
	}
	return c.setup()
}

// Load reads env files and parses the environment into cfg. Command-line flags
// bound with BindFlags override the parsed values afterwards.
func Load(cfg any, envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	return env.Parse(cfg)
}
