package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Plan identifies a caller's subscription tier. The tier decides the maximum
// upload size accepted before any parsing starts.
type Plan string

const (
	PlanFree     Plan = "free"
	PlanPro      Plan = "pro"
	PlanBusiness Plan = "business"
)

// ParsePlan normalizes a user-supplied plan string. Unknown values fall back
// to the free tier rather than erroring: the limit check degrades safely.
func ParsePlan(s string) Plan {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(PlanPro):
		return PlanPro
	case string(PlanBusiness):
		return PlanBusiness
	default:
		return PlanFree
	}
}

// Limits holds the per-plan maximum upload sizes in bytes.
type Limits struct {
	FreeMaxBytes     int64 `mapstructure:"free_max_bytes"`
	ProMaxBytes      int64 `mapstructure:"pro_max_bytes"`
	BusinessMaxBytes int64 `mapstructure:"business_max_bytes"`
}

const mib = 1 << 20

// DefaultLimits returns the built-in tier limits: 10MB / 50MB / 200MB.
func DefaultLimits() Limits {
	return Limits{
		FreeMaxBytes:     10 * mib,
		ProMaxBytes:      50 * mib,
		BusinessMaxBytes: 200 * mib,
	}
}

// MaxBytes returns the upload limit for the given plan.
func (l Limits) MaxBytes(p Plan) int64 {
	switch p {
	case PlanPro:
		return l.ProMaxBytes
	case PlanBusiness:
		return l.BusinessMaxBytes
	default:
		return l.FreeMaxBytes
	}
}

// LoadLimits reads tier limits from an optional config file and the
// environment, falling back to DefaultLimits.
//
// Lookup order:
//  1. FEEDSCOPE_LIMITS_* environment variables
//     (e.g. FEEDSCOPE_LIMITS_FREE_MAX_BYTES=5242880)
//  2. limits.{yaml,json,toml} in the working directory or /etc/feedscope
//  3. built-in defaults
//
// A missing config file is not an error; a malformed one is.
func LoadLimits() (Limits, error) {
	def := DefaultLimits()

	v := viper.New()
	v.SetConfigName("limits")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/feedscope")

	v.SetEnvPrefix("FEEDSCOPE_LIMITS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("free_max_bytes", def.FreeMaxBytes)
	v.SetDefault("pro_max_bytes", def.ProMaxBytes)
	v.SetDefault("business_max_bytes", def.BusinessMaxBytes)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return def, fmt.Errorf("read limits config: %w", err)
		}
	}

	var out Limits
	if err := v.Unmarshal(&out); err != nil {
		return def, fmt.Errorf("unmarshal limits config: %w", err)
	}

	// Zero or negative limits would reject every upload; treat them as
	// "unset" and keep the defaults for that tier.
	if out.FreeMaxBytes <= 0 {
		out.FreeMaxBytes = def.FreeMaxBytes
	}
	if out.ProMaxBytes <= 0 {
		out.ProMaxBytes = def.ProMaxBytes
	}
	if out.BusinessMaxBytes <= 0 {
		out.BusinessMaxBytes = def.BusinessMaxBytes
	}
	return out, nil
}
