// Package awslambda はAPI Gatewayのプロキシ統合イベントをゲートウェイに橋渡しする。
package awslambda

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog/log"

	"github.com/nao1215/tokengate/internal/gateway"
)

// Handler はLambdaの呼び出しを処理する。
type Handler struct {
	gateway *gateway.Gateway
}

// NewHandler は新しいLambdaハンドラを生成する。
func NewHandler(gw *gateway.Gateway) *Handler {
	return &Handler{gateway: gw}
}

// Invoke はAPI Gatewayのプロキシイベントを処理する。
// ゲートウェイは常にレスポンスを返すため、エラーを返すのはボディのデコードに失敗した場合のみ。
func (h *Handler) Invoke(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := log.With().
		Str("request_id", requestID(ctx, event)).
		Str("method", event.HTTPMethod).
		Str("path", event.Path).
		Logger()
	ctx = logger.WithContext(ctx)

	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			logger.Warn().Err(err).Msg("Base64ボディのデコードに失敗")
			return events.APIGatewayProxyResponse{StatusCode: http.StatusBadRequest}, nil
		}
		body = string(decoded)
	}

	resp := h.gateway.Handle(ctx, gateway.Request{
		Method:  event.HTTPMethod,
		Path:    event.Path,
		Headers: event.Headers,
		Body:    body,
	})

	logger.Info().Int("status", resp.StatusCode).Msg("request.handled")
	return toProxyResponse(resp), nil
}

// toProxyResponse はゲートウェイのレスポンスをAPI Gatewayの形式に変換する。
func toProxyResponse(resp gateway.Response) events.APIGatewayProxyResponse {
	out := events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}
	if resp.Body != "" {
		out.Headers = map[string]string{"Content-Type": "application/json"}
	}
	return out
}

// requestID はLambdaのリクエストIDを返す。取得できない場合はAPI GatewayのリクエストIDを使う。
func requestID(ctx context.Context, event events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return event.RequestContext.RequestID
}

