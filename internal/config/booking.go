package config

import (
	"os"
	"strconv"
	"time"
)

type BookingConfig struct {
	NotificationQueueKey string
	VoucherTTL           time.Duration
	VoucherKeyPrefix     string
	ListLimit            int
	RequestBodyMaxBytes  int64
}

func LoadBookingConfig() *BookingConfig {
	return &BookingConfig{
		NotificationQueueKey: getEnv("BOOKING_NOTIFICATION_QUEUE", "booking_notifications"),
		VoucherTTL:           getEnvAsDuration("BOOKING_VOUCHER_TTL", 24*time.Hour),
		VoucherKeyPrefix:     getEnv("BOOKING_VOUCHER_PREFIX", "voucher"),
		ListLimit:            getEnvAsInt("BOOKING_LIST_LIMIT", 100),
		RequestBodyMaxBytes:  int64(getEnvAsInt("BOOKING_MAX_BODY_BYTES", 1_048_576)),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			return duration
		}
	}
	return defaultVal
}
