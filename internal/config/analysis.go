package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// DeliveryBucket is one delivery-time partition. MaxDays nil means
// open-ended.
type DeliveryBucket struct {
	Label   string `mapstructure:"label"`
	MinDays int    `mapstructure:"minDays"`
	MaxDays *int   `mapstructure:"maxDays"`
}

// AnalysisConfig tunes the metrics engine defaults. Everything here is
// explicit per-call input to the engine; there is no process-wide default
// state beyond this holder.
type AnalysisConfig struct {
	DeliveryBuckets   []DeliveryBucket `mapstructure:"deliveryBuckets"`
	TopCategories     int              `mapstructure:"topCategories"`
	DefaultWindowDays int              `mapstructure:"defaultWindowDays"`
}

func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		DeliveryBuckets: []DeliveryBucket{
			{Label: "0-3 days", MinDays: 0, MaxDays: intPtr(3)},
			{Label: "4-7 days", MinDays: 4, MaxDays: intPtr(7)},
			{Label: "8-14 days", MinDays: 8, MaxDays: intPtr(14)},
			{Label: "15+ days", MinDays: 15, MaxDays: nil},
		},
		TopCategories:     10,
		DefaultWindowDays: 30,
	}
}

func intPtr(v int) *int { return &v }

// AnalysisConfigHolder hot-reloads analysis settings from an optional yml
// file; consumers read a consistent value via Get.
type AnalysisConfigHolder struct {
	current atomic.Value // holds AnalysisConfig
}

func NewAnalysisConfigHolder() (*AnalysisConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("analysis")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/storelens/config")
	v.AddConfigPath("/etc/storelens")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STORELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultAnalysisConfig()
		v.SetDefault("analysis.deliveryBuckets", defaults.DeliveryBuckets)
		v.SetDefault("analysis.topCategories", defaults.TopCategories)
		v.SetDefault("analysis.defaultWindowDays", defaults.DefaultWindowDays)
	}

	var cfg AnalysisConfig
	if err := v.UnmarshalKey("analysis", &cfg); err != nil {
		return nil, err
	}
	if len(cfg.DeliveryBuckets) == 0 {
		cfg = DefaultAnalysisConfig()
	}
	if cfg.DefaultWindowDays <= 0 {
		cfg.DefaultWindowDays = DefaultAnalysisConfig().DefaultWindowDays
	}
	if err := validateAnalysisConfig(cfg); err != nil {
		return nil, err
	}

	holder := &AnalysisConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated AnalysisConfig
		if err := v.UnmarshalKey("analysis", &updated); err != nil {
			log.Printf("[analysis-config] reload failed: %v", err)
			return
		}
		if err := validateAnalysisConfig(updated); err != nil {
			log.Printf("[analysis-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[analysis-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticAnalysisConfigHolder wraps a fixed config with no file watching.
func NewStaticAnalysisConfigHolder(cfg AnalysisConfig) *AnalysisConfigHolder {
	holder := &AnalysisConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *AnalysisConfigHolder) Get() AnalysisConfig {
	return h.current.Load().(AnalysisConfig)
}

func validateAnalysisConfig(cfg AnalysisConfig) error {
	if len(cfg.DeliveryBuckets) == 0 {
		return errors.New("analysis.deliveryBuckets cannot be empty")
	}
	if cfg.TopCategories <= 0 {
		return errors.New("analysis.topCategories must be positive")
	}
	for _, bucket := range cfg.DeliveryBuckets {
		if bucket.MaxDays != nil && *bucket.MaxDays < bucket.MinDays {
			return errors.New("analysis.deliveryBuckets bucket max below min")
		}
	}
	return nil
}
