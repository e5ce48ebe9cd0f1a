package progress

import "time"

// Config holds configuration for the progress store.
type Config struct {
	// Backend selects the store implementation ("memory" or "redis").
	Backend string `mapstructure:"backend" default:"memory"`
	// Grace is how long a finished entry stays readable.
	Grace time.Duration `mapstructure:"grace" default:"2m"`
	// RedisAddr is the address of the redis server (host:port).
	RedisAddr string `mapstructure:"redis_addr" default:"localhost:6379"`
	// RedisPassword is the password used to authenticate with redis.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB is the redis logical database index.
	RedisDB int `mapstructure:"redis_db" default:"0"`
}
