package config

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Defaults used by Load when the variable is unset.
const (
	DefaultDriver    = DriverFile
	DefaultLedgerDir = "csv"
	DefaultHTTPAddr  = ":8080"
	DefaultLogLevel  = "info"
)

// App is the process configuration. Load documents the variable behind each field.
type App struct {
	Driver       string
	LedgerDir    string
	DatabaseURL  string
	KafkaBrokers []string
	HTTPAddr     string
	LogLevel     string
}
