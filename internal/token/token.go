package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultLifetime は発行したトークンの既定の有効期間。
	DefaultLifetime = 10 * time.Second
	// DefaultNotBeforeDelay は発行時刻からnbfまでの既定の猶予。
	DefaultNotBeforeDelay = 0 * time.Second
)

// Claims はトークンに埋め込まれるクレーム。
// RegisteredClaimsのうち使用するのはexpとnbfのみ。
type Claims struct {
	// Data は発行時に呼び出し元が渡した任意のJSON値。
	Data json.RawMessage `json:"data"`
	jwt.RegisteredClaims
}

// Codec はHS256でトークンの署名と検証を行う。
// 生成後は不変であり、複数のゴルーチンから同時に利用できる。
type Codec struct {
	secret         []byte
	lifetime       time.Duration
	notBeforeDelay time.Duration
	now            func() time.Time
}

// Option はCodecの設定を変更する関数。
type Option func(*Codec)

// WithLifetime はトークンの有効期間（発行時刻からexpまで）を設定する。
func WithLifetime(d time.Duration) Option {
	return func(c *Codec) {
		c.lifetime = d
	}
}

// WithNotBeforeDelay は発行時刻からnbfまでの猶予を設定する。
func WithNotBeforeDelay(d time.Duration) Option {
	return func(c *Codec) {
		c.notBeforeDelay = d
	}
}

// WithClock は現在時刻の取得関数を差し替える。テストで使用する。
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec は指定されたシークレットで署名・検証するCodecを生成する。
func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	c := &Codec{
		secret:         []byte(secret),
		lifetime:       DefaultLifetime,
		notBeforeDelay: DefaultNotBeforeDelay,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.lifetime <= 0 {
		return nil, fmt.Errorf("有効期間が不正です: %s", c.lifetime)
	}
	if c.notBeforeDelay < 0 || c.notBeforeDelay >= c.lifetime {
		return nil, fmt.Errorf("nbfの猶予が不正です: %s (有効期間 %s)", c.notBeforeDelay, c.lifetime)
	}
	return c, nil
}

// Lifetime はトークンの有効期間を返す。
func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}

// Issue はdataを埋め込んだトークンを生成する。
// dataは妥当なJSONであること。
func (c *Codec) Issue(data json.RawMessage) (string, error) {
	now := c.now()
	claims := Claims{
		Data: data,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
			NotBefore: jwt.NewNumericDate(now.Add(c.notBeforeDelay)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("トークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と有効期間を検証し、クレームを返す。
// 失敗時は*VerifyErrorを返す。
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)

	claims := &Claims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, &VerifyError{Kind: Expired, Err: err}
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, &VerifyError{Kind: NotYetValid, Err: err}
	case err != nil:
		return nil, &VerifyError{Kind: Invalid, Err: err}
	case !tok.Valid:
		return nil, &VerifyError{Kind: Invalid, Err: jwt.ErrTokenInvalidClaims}
	}
	return claims, nil
}
