package audit

// Config holds configuration for the activity sink.
type Config struct {
	// Sink selects where activity events go ("log", "kafka" or "none").
	Sink string `mapstructure:"sink" default:"log"`
	// Brokers lists the kafka bootstrap brokers.
	Brokers []string `mapstructure:"brokers" default:"localhost:9092"`
	// Topic is the kafka topic events are written to.
	Topic string `mapstructure:"topic" default:"import-activity"`
}
