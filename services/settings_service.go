package services

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/2eliot/Inefablestore/models"
	"github.com/2eliot/Inefablestore/utils"
)

const (
	settingsCachePrefix = "setting:"
	settingsCacheTTL    = 5 * time.Minute

	// DefaultCommissionPercent applies when no commission override is
	// configured anywhere.
	DefaultCommissionPercent = 10.0
)

// SettingsService reads and writes store-wide key/value settings, with an
// optional Redis cache in front of MongoDB.
type SettingsService struct {
	collection *mongo.Collection
	redis      *redis.Client
}

func NewSettingsService(collection *mongo.Collection, redisClient *redis.Client) *SettingsService {
	return &SettingsService{
		collection: collection,
		redis:      redisClient,
	}
}

// Get returns the value for key, or "" when the key is unset.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, settingsCachePrefix+key).Result()
		if err == nil {
			return cached, nil
		}
		if err != redis.Nil {
			log.Printf("Settings cache read error for %s: %v", key, err)
		}
	}

	var setting models.Setting
	err := s.collection.FindOne(ctx, bson.M{"key": key}).Decode(&setting)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		return "", err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, settingsCachePrefix+key, setting.Value, settingsCacheTTL).Err(); err != nil {
			log.Printf("Settings cache write error for %s: %v", key, err)
		}
	}
	return setting.Value, nil
}

// Set upserts the value for key and refreshes the cache.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	opts := options.Update().SetUpsert(true)
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"key": key, "value": value}},
		opts,
	)
	if err != nil {
		return err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, settingsCachePrefix+key, value, settingsCacheTTL).Err(); err != nil {
			log.Printf("Settings cache write error for %s: %v", key, err)
		}
	}
	return nil
}

// ExchangeRate returns the configured BsD-per-USD rate. A missing or
// unparseable setting yields 0, which callers treat as "rate unavailable".
func (s *SettingsService) ExchangeRate(ctx context.Context) float64 {
	raw, err := s.Get(ctx, models.SettingExchangeRate)
	if err != nil {
		log.Printf("Error reading exchange rate setting: %v", err)
		return 0
	}
	return utils.ParseFloat(raw, 0)
}

// CommissionPercent returns the store-wide default commission percent.
func (s *SettingsService) CommissionPercent(ctx context.Context) float64 {
	raw, err := s.Get(ctx, models.SettingCommissionPercent)
	if err != nil {
		log.Printf("Error reading commission percent setting: %v", err)
		return DefaultCommissionPercent
	}
	pct := utils.ParseFloat(raw, 0)
	if pct <= 0 {
		return DefaultCommissionPercent
	}
	return pct
}

// AdminNotifyEmail returns the admin notification address, falling back to
// the ORDER_NOTIFY_EMAIL environment variable.
func (s *SettingsService) AdminNotifyEmail(ctx context.Context) string {
	raw, err := s.Get(ctx, models.SettingAdminNotifyEmail)
	if err != nil {
		log.Printf("Error reading notify email setting: %v", err)
		raw = ""
	}
	if raw == "" {
		raw = os.Getenv("ORDER_NOTIFY_EMAIL")
	}
	return raw
}

// PaymentInfo returns the buyer-facing payment destination settings.
func (s *SettingsService) PaymentInfo(ctx context.Context) (map[string]string, error) {
	keys := []string{
		models.SettingPMBank,
		models.SettingPMName,
		models.SettingPMPhone,
		models.SettingPMID,
		models.SettingBinanceEmail,
		models.SettingBinancePhone,
	}
	info := make(map[string]string, len(keys))
	for _, key := range keys {
		value, err := s.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		info[key] = value
	}
	return info, nil
}
