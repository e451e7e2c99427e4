package config

import (
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type AppConfig struct {
	// BaseURL is joined with relative artifact paths at read time. It is
	// never stored inside a record, so it can change without a migration.
	BaseURL string `mapstructure:"baseURL"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"`
}

type UploadsConfig struct {
	Dir      string `mapstructure:"dir"`      // root of local upload storage
	LogoPath string `mapstructure:"logoPath"` // optional logo composited onto barcodes
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"` // empty disables redis-backed features
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Capacity       int           `mapstructure:"capacity"`
	RefillTokens   int           `mapstructure:"refillTokens"`
	RefillInterval time.Duration `mapstructure:"refillInterval"`
	TTL            time.Duration `mapstructure:"ttl"`
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	App       AppConfig       `mapstructure:"app"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	S3        S3Config        `mapstructure:"s3"`
}

// LoadConfig reads config.yaml from the given path and overlays environment
// variables on top. A missing config file is not an error; env vars alone are
// enough to run.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("app.baseURL", "APP_BASE_URL")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("uploads.dir", "UPLOADS_DIR")
	viper.BindEnv("uploads.logoPath", "UPLOADS_LOGO_PATH")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")

	viper.SetDefault("server.port", "5000")
	viper.SetDefault("app.baseURL", "http://localhost:5000")
	viper.SetDefault("uploads.dir", "uploads")
	viper.SetDefault("jwt.expiration", "24h")
	viper.SetDefault("ratelimit.enabled", true)
	viper.SetDefault("ratelimit.capacity", 30)
	viper.SetDefault("ratelimit.refillTokens", 30)
	viper.SetDefault("ratelimit.refillInterval", time.Minute)
	viper.SetDefault("ratelimit.ttl", 10*time.Minute)

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
