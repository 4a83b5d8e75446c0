package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	SupabaseURL         string // storage base URL for logo signed/public URLs
	SupabaseSecretKey   string // service_role key, not the anon key
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	DirectoryCacheTTL   int // seconds; 0 disables the directory cache
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "test" && viper.GetString("DATABASE_URL_TEST") != "" {
		dbURL = viper.GetString("DATABASE_URL_TEST")
	}

	ttl := viper.GetInt("DIRECTORY_CACHE_TTL")
	if ttl == 0 && !viper.IsSet("DIRECTORY_CACHE_TTL") {
		ttl = 30
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		SupabaseURL:         viper.GetString("SUPABASE_URL"),
		SupabaseSecretKey:   viper.GetString("SUPABASE_SECRET_KEY"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		DirectoryCacheTTL:   ttl,
	}, nil
}
