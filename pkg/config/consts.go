package config

// EnvPrefix is intentionally empty: every key carries the explicit BYBA_ prefix
// in its envconfig tag.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "BYBA_DB_DSN"
	EnvDBHost = "BYBA_DB_HOST"
	EnvDBUser = "BYBA_DB_USER"
	EnvDBName = "BYBA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
