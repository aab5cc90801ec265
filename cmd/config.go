package cmd

// Config carries everything the process needs from the environment.
// Loaded from .env via godotenv in cmd/app.
type Config struct {
	HTTPPort               string
	DBHost                 string
	DBPort                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBSslMode              string
	JWTSecret              string
	KafkaHost              string
	KafkaOrderChangedTopic string
	ReconciliationSchedule string
}
