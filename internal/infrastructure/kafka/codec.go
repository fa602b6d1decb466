package kafka

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/nschwinning/sleuth-2/internal/domain"
)

// EncodeEnvelope сериализует конверт в JSON вида {"message":"..."}.
func EncodeEnvelope(env domain.Envelope) ([]byte, error) {
	b, err := sonic.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return b, nil
}

// DecodeEnvelope разбирает значение сообщения из топика.
func DecodeEnvelope(b []byte) (domain.Envelope, error) {
	var env domain.Envelope
	if err := sonic.Unmarshal(b, &env); err != nil {
		return domain.Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
