package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultPort                  = "8080"
	DefaultAccessTokenExpiryMin  = 15
	DefaultRefreshTokenExpiryMin = 10080
	DefaultReferralBonusPoints   = 10000
	DefaultBcryptCost            = 10
	DefaultMigrationsDir         = "db/migrations"
)

type Config struct {
	Env                 string
	Port                string
	DBURL               string
	MigrationsDir       string
	AccessTokenSecret   string
	RefreshTokenSecret  string
	AccessExpiryMin     int
	RefreshExpiryMin    int
	ReferralBonusPoints int64
	BcryptCost          int
}

// fileEnv holds values read from a config/.env.<env> file. Process env vars
// always take precedence; the file never mutates the environment.
type fileEnv map[string]string

// Load reads configuration from the environment with a config/.env.<env>
// file as fallback, then built-in defaults.
func Load() *Config {
	env := getEnv("ENV", "development")

	envFile := ".env.dev"
	if env == "production" {
		envFile = ".env.prod"
	}
	// The file is optional when everything comes from the environment.
	fileVals, _ := godotenv.Read(filepath.Join("config", envFile))
	fe := fileEnv(fileVals)

	return &Config{
		Env:                 env,
		Port:                fe.get("PORT", DefaultPort),
		DBURL:               fe.mustGet("DB_URL"),
		MigrationsDir:       fe.get("MIGRATIONS_DIR", DefaultMigrationsDir),
		AccessTokenSecret:   fe.mustGet("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:  fe.mustGet("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:     fe.getInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryMin:    fe.getInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),
		ReferralBonusPoints: int64(fe.getInt("REFERRAL_BONUS_POINTS", DefaultReferralBonusPoints)),
		BcryptCost:          fe.getInt("BCRYPT_COST", DefaultBcryptCost),
	}
}

func (fe fileEnv) get(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if value := fe[key]; value != "" {
		return value
	}
	return defaultVal
}

func (fe fileEnv) mustGet(key string) string {
	if value := fe.get(key, ""); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func (fe fileEnv) getInt(key string, defaultVal int) int {
	valStr := fe.get(key, "")
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
