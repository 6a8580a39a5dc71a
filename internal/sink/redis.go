// Package sink публикует снятые осциллограммы во внешние хранилища.
package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/momentics/gobench/pkg/bench"
	"github.com/momentics/gobench/pkg/logger"
)

// Message - осциллограмма в том виде, в каком она уходит подписчикам.
type Message struct {
	Instrument string    `json:"instrument"`
	Model      string    `json:"model"`
	Channel    int       `json:"channel"`
	AcquiredAt time.Time `json:"acquired_at"`
	Points     int       `json:"points"`
	Time       []float64 `json:"time"`
	Value      []float64 `json:"value"`
}

// NewMessage собирает сообщение из осциллограммы.
func NewMessage(instrument, model string, wf bench.Waveform, at time.Time) Message {
	return Message{
		Instrument: instrument,
		Model:      model,
		Channel:    wf.Channel,
		AcquiredAt: at.UTC(),
		Points:     wf.Len(),
		Time:       wf.Time,
		Value:      wf.Value,
	}
}

// Encode сериализует сообщение в JSON.
func Encode(msg Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(err, "encode waveform message")
	}
	return data, nil
}

// HistoryKey - ключ списка последних осциллограмм прибора.
func HistoryKey(instrument string) string {
	return "gobench:" + instrument + ":waveforms"
}

// Config - подключение к Redis.
type Config struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
	Channel  string `yaml:"channel"`
	History  int    `yaml:"history"`
}

// Redis публикует сообщения в канал Pub/Sub и хранит последние History штук в списке.
type Redis struct {
	client  *redis.Client
	channel string
	history int
	log     logger.Logger
}

// NewRedis подключается и проверяет соединение.
func NewRedis(ctx context.Context, cfg Config, log logger.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "redis %s", cfg.Addr)
	}
	log.Info("redis sink connected", "addr", cfg.Addr, "channel", cfg.Channel)
	return &Redis{client: client, channel: cfg.Channel, history: cfg.History, log: log}, nil
}

// Publish отправляет сообщение. Ошибка записи истории только логируется.
func (r *Redis) Publish(ctx context.Context, msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return errors.Wrap(err, "publish waveform")
	}
	if r.history <= 0 {
		return nil
	}
	key := HistoryKey(msg.Instrument)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(r.history-1))
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.Warn("waveform history not saved", "key", key, "error", err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }
