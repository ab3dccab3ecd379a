// Package config は環境変数からゲートウェイの設定を読み込む。
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/nao1215/tokengate/internal/token"
)

// 設定キー。環境変数名は大文字化したもの（例: jwt_secret → JWT_SECRET）。
const (
	KeySecret         = "jwt_secret"
	KeyLifetime       = "token_lifetime"
	KeyNotBeforeDelay = "token_not_before_delay"
	KeyPort           = "port"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
)

// ErrMissingSecret はJWT_SECRETが設定されていない場合に返される。
var ErrMissingSecret = errors.New("JWT_SECRETが設定されていません")

// Config はゲートウェイの設定値。
type Config struct {
	// Secret はHS256の署名・検証に使用するシークレット。
	Secret string
	// Lifetime は発行トークンの有効期間。
	Lifetime time.Duration
	// NotBeforeDelay は発行時刻からnbfまでの猶予。
	NotBeforeDelay time.Duration
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// LogLevel はzerologのログレベル。
	LogLevel string
	// LogFormat はログ出力形式（console / json）。
	LogFormat string
}

// New は環境変数を参照するviperインスタンスを既定値付きで生成する。
// CLIはこのインスタンスにフラグをバインドしてから Load に渡す。
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLifetime, token.DefaultLifetime.String())
	v.SetDefault(KeyNotBeforeDelay, token.DefaultNotBeforeDelay.String())
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.AutomaticEnv()
	return v
}

// Load はviperから設定を読み込み、検証する。
func Load(v *viper.Viper) (*Config, error) {
	lifetime, err := parseDuration(v, KeyLifetime)
	if err != nil {
		return nil, err
	}
	delay, err := parseDuration(v, KeyNotBeforeDelay)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Secret:         v.GetString(KeySecret),
		Lifetime:       lifetime,
		NotBeforeDelay: delay,
		Port:           v.GetString(KeyPort),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv は環境変数のみから設定を読み込む。
func FromEnv() (*Config, error) {
	return Load(New())
}

// Validate は設定値の整合性を検証する。
func (c *Config) Validate() error {
	if c.Secret == "" {
		return ErrMissingSecret
	}
	if c.Lifetime <= 0 {
		return fmt.Errorf("TOKEN_LIFETIMEは正の値である必要があります: %s", c.Lifetime)
	}
	if c.NotBeforeDelay < 0 || c.NotBeforeDelay >= c.Lifetime {
		return fmt.Errorf("TOKEN_NOT_BEFORE_DELAYは0以上TOKEN_LIFETIME未満である必要があります: %s", c.NotBeforeDelay)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("LOG_FORMATが不正です: %q", c.LogFormat)
	}
	return nil
}

// Codec は設定値からトークンCodecを生成する。
func (c *Config) Codec(opts ...token.Option) (*token.Codec, error) {
	base := []token.Option{
		token.WithLifetime(c.Lifetime),
		token.WithNotBeforeDelay(c.NotBeforeDelay),
	}
	return token.NewCodec(c.Secret, append(base, opts...)...)
}

// parseDuration は "10s" のようなGoの期間表記、または秒数の整数を受け付ける。
func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	secs := v.GetInt64(key)
	if secs == 0 && raw != "0" {
		return 0, fmt.Errorf("%sの値が不正です: %q", key, raw)
	}
	return time.Duration(secs) * time.Second, nil
}
