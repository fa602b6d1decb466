package kafka

import (
	"github.com/IBM/sarama"
	"github.com/segmentio/kafka-go"
)

// DispatchIDHeader несёт id публикации: по нему Completion находит колбэк конкретной записи.
const DispatchIDHeader = "x-dispatch-id"

func toKafkaHeaders(h map[string]string, dispatchID string) []kafka.Header {
	out := make([]kafka.Header, 0, len(h)+1)
	for k, v := range h {
		out = append(out, kafka.Header{Key: k, Value: []byte(v)})
	}
	return append(out, kafka.Header{Key: DispatchIDHeader, Value: []byte(dispatchID)})
}

// HeadersMap переводит заголовки kafka-go в map (для извлечения trace context).
func HeadersMap(hs []kafka.Header) map[string]string {
	out := make(map[string]string, len(hs))
	for _, h := range hs {
		out[h.Key] = string(h.Value)
	}
	return out
}

func dispatchID(hs []kafka.Header) string {
	for _, h := range hs {
		if h.Key == DispatchIDHeader {
			return string(h.Value)
		}
	}
	return ""
}

func toSaramaHeaders(h map[string]string) []sarama.RecordHeader {
	out := make([]sarama.RecordHeader, 0, len(h))
	for k, v := range h {
		out = append(out, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	return out
}
