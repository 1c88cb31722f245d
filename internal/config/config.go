package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable with -s / CART_STORAGE.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageBrowser  = "browser"
)

type Options struct {
	runAddr     string
	logLevel    string
	storage     string
	cartKey     string
	dataBaseDSN string
	sqlitePath  string
	redisAddr   string
	browserURL  string
	debuggerURL string
	cartPage    string
	notifyDwell time.Duration
}

func NewOptions() *Options {
	return new(Options)
}

// ParseFlags handles command line arguments
// and stores their values in the corresponding variables.
func (o *Options) ParseFlags() {
	_ = o.parse(flag.CommandLine, os.Args[1:], true)
}

// ParseArgs parses args on a private flag set without touching the .env file.
func (o *Options) ParseArgs(args []string) error {
	return o.parse(flag.NewFlagSet("cartfolio", flag.ContinueOnError), args, false)
}

func (o *Options) parse(fs *flag.FlagSet, args []string, withEnvFile bool) error {
	if withEnvFile {
		// Load environment variables from the .env file
		loadEnvFile()
	}

	// Override variable values with values from command line flags
	fs.StringVar(&o.runAddr, "a", getEnvOrDefault("RUN_ADDRESS", ":8080"), "address and port to run server")
	fs.StringVar(&o.logLevel, "l", getEnvOrDefault("LOG_LEVEL", "debug"), "log level")
	fs.StringVar(&o.storage, "s", getEnvOrDefault("CART_STORAGE", StorageMemory), "cart storage: memory, sqlite, postgres, redis or browser")
	fs.StringVar(&o.cartKey, "k", getEnvOrDefault("CART_KEY", "cartfolio_cart"), "persistent slot key")
	fs.StringVar(&o.dataBaseDSN, "d", getEnvOrDefault("DATABASE_URI", ""), "database connection string")
	fs.StringVar(&o.sqlitePath, "f", getEnvOrDefault("SQLITE_PATH", "cartfolio.db"), "sqlite database file")
	fs.StringVar(&o.redisAddr, "r", getEnvOrDefault("REDIS_ADDR", "localhost:6379"), "redis address or URL")
	fs.StringVar(&o.browserURL, "b", getEnvOrDefault("BROWSER_URL", ""), "page opened by the browser storage")
	fs.StringVar(&o.debuggerURL, "c", getEnvOrDefault("CHROME_DEBUGGER_URL", ""), "DevTools URL of a running Chrome")
	fs.StringVar(&o.cartPage, "p", getEnvOrDefault("CART_PAGE", "cart.html"), "path fragment of the cart page")
	fs.DurationVar(&o.notifyDwell, "n", getDurationOrDefault("NOTIFY_DWELL", 2*time.Second), "notification dwell time")

	// parse the arguments passed to the server into registered variables
	return fs.Parse(args)
}

func (o *Options) RunAddr() string {
	return o.runAddr
}

func (o *Options) LogLevel() string {
	return o.logLevel
}

func (o *Options) Storage() string {
	return o.storage
}

func (o *Options) CartKey() string {
	return o.cartKey
}

func (o *Options) DataBaseDSN() string {
	return o.dataBaseDSN
}

func (o *Options) SQLitePath() string {
	return o.sqlitePath
}

func (o *Options) RedisAddr() string {
	return o.redisAddr
}

func (o *Options) BrowserURL() string {
	return o.browserURL
}

func (o *Options) DebuggerURL() string {
	return o.debuggerURL
}

func (o *Options) CartPage() string {
	return o.cartPage
}

func (o *Options) NotifyDwell() time.Duration {
	return o.notifyDwell
}

// getEnvOrDefault reads an environment variable or returns a default value if the variable is not set or is empty.
func getEnvOrDefault(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return d
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile() {
	// Determine the path to the .env file relative to the current working directory
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	envPath := filepath.Join(cwd, "..", "..", ".env")

	// Load environment variables from the .env file
	err = godotenv.Load(envPath)
	if err != nil {
		log.Printf("No .env file found at %s, proceeding without it", envPath)
	} else {
		log.Printf(".env file loaded from %s", envPath)
	}
}
