package kafka

import (
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	DriverKafkaGo = "kafka-go"
	DriverSarama  = "sarama"
)

// Config задаёт настройки Kafka. Переменные: SLEUTH_KAFKA_BROKERS, SLEUTH_KAFKA_TOPIC, SLEUTH_KAFKA_DRIVER и т.д.
type Config struct {
	Brokers      string        `envconfig:"BROKERS" default:"localhost:9093"` // через запятую, если несколько
	Topic        string        `envconfig:"TOPIC" default:"simple"`
	GroupID      string        `envconfig:"GROUP_ID" default:"sleuth-consumer"` // для consumer group
	Driver       string        `envconfig:"DRIVER" default:"kafka-go"`          // kafka-go или sarama
	BatchTimeout time.Duration `envconfig:"BATCH_TIMEOUT" default:"10ms"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
}

// brokersSlice возвращает список брокеров из строки (через запятую).
func (c *Config) brokersSlice() []string {
	var out []string
	if c != nil {
		for _, p := range strings.Split(c.Brokers, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		return []string{"localhost:9093"}
	}
	return out
}

// Client хранит конфиг и создаёт продюсеров/консьюмеров. Подключение к брокеру происходит при первой записи или чтении.
type Client struct {
	cfg *Config
}

// New создаёт клиент по конфигу.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Client{cfg: cfg}
}

// Producer создаёт асинхронного продюсера на kafka-go. Топик берётся из каждой записи. После использования вызови Close().
func (c *Client) Producer(log *slog.Logger) *Producer {
	p := &Producer{
		brokers: c.cfg.brokersSlice(),
		pending: make(map[string]pendingRecord),
		log:     log,
	}
	p.w = &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           c.cfg.BatchTimeout,
		WriteTimeout:           c.cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             p.complete,
	}
	return p
}

// Consumer создаёт консьюмера для чтения из топика (consumer group). После использования вызови Close().
func (c *Client) Consumer() *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: c.cfg.brokersSlice(),
		Topic:   c.cfg.Topic,
		GroupID: c.cfg.GroupID,
	})
	return &Consumer{r: r}
}
