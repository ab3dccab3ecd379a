// トークンゲートウェイのAWS Lambdaエントリポイント。
// API Gatewayのプロキシ統合イベントを受け取り、HTTPサーバーと同じ方針で応答する。
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/nao1215/tokengate/internal/awslambda"
	"github.com/nao1215/tokengate/internal/config"
	"github.com/nao1215/tokengate/internal/gateway"
	"github.com/nao1215/tokengate/internal/logging"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("設定の読み込みに失敗")
	}
	// CloudWatch Logsで扱いやすいよう、LOG_FORMATの指定に関わらずJSONで出力する
	if err := logging.Init(cfg.LogLevel, "json"); err != nil {
		log.Fatal().Err(err).Msg("ロガーの初期化に失敗")
	}

	codec, err := cfg.Codec()
	if err != nil {
		log.Fatal().Err(err).Msg("トークンCodecの初期化に失敗")
	}

	lambda.Start(awslambda.NewHandler(gateway.New(codec)).Invoke)
}
