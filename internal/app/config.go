package app

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/nschwinning/sleuth-2/internal/api/http"
	"github.com/nschwinning/sleuth-2/internal/infrastructure/kafka"
	"github.com/nschwinning/sleuth-2/internal/infrastructure/tracing"
	"github.com/nschwinning/sleuth-2/internal/usecase/dispatcher"
)

const AppName = "SLEUTH"

// envFile подхватывается из рабочей директории, путь можно переопределить через SLEUTH_ENV_FILE.
const envFile = ".env"

// Config хранит конфиг приложения. Заполняется через envconfig с префиксом SLEUTH.
type Config struct {
	LogLevel string            `envconfig:"LOG_LEVEL" default:"info"`
	Server   http.ServerConfig `envconfig:"SERVER"`
	Kafka    kafka.Config      `envconfig:"KAFKA"`
	Dispatch dispatcher.Config `envconfig:"DISPATCH"`
	Tracing  tracing.Config    `envconfig:"TRACING"`
}

// LoadCfg загружает конфиг: подтягивает .env (godotenv), затем заполняет структуру из окружения (envconfig).
// Топик диспетчера всегда совпадает с топиком Kafka.
func LoadCfg() (Config, error) {
	path := envFile
	if p := os.Getenv(AppName + "_ENV_FILE"); p != "" {
		path = p
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("config: %s не найден, используем окружение: %v", path, err)
	}

	var cfg Config
	if err := envconfig.Process(AppName, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Dispatch.Topic = cfg.Kafka.Topic
	return cfg, nil
}
