// トークンゲートウェイのHTTPサーバーのエントリポイント。
// JSONペイロードから短命な署名付きトークンを発行し、Bearerトークンを検証する。
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/nao1215/tokengate/internal/config"
	"github.com/nao1215/tokengate/internal/gateway"
	"github.com/nao1215/tokengate/internal/logging"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("設定の読み込みに失敗")
	}
	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("ロガーの初期化に失敗")
	}

	codec, err := cfg.Codec()
	if err != nil {
		log.Fatal().Err(err).Msg("トークンCodecの初期化に失敗")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := gateway.NewServer(cfg.Port, gateway.New(codec))

	log.Info().
		Str("port", cfg.Port).
		Dur("lifetime", cfg.Lifetime).
		Dur("not_before_delay", cfg.NotBeforeDelay).
		Msg("ゲートウェイを起動します")
	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("ゲートウェイの起動に失敗")
	}
	log.Info().Msg("ゲートウェイを停止しました")
}
