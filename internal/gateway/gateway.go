package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nao1215/tokengate/internal/token"
)

const (
	// headerContentType は正規化後のContent-Typeヘッダー名。
	headerContentType = "content-type"
	// headerAuthorization は正規化後のAuthorizationヘッダー名。
	headerAuthorization = "authorization"
	// mimeJSON は発行リクエストに要求するContent-Type。完全一致で比較する。
	mimeJSON = "application/json"
	// bearerScheme はAuthorizationヘッダーの認証スキーム。
	bearerScheme = "Bearer"

	rootPath  = "/"
	tokenPath = "/token"
)

// issueResponse はトークン発行時のレスポンスボディ。
type issueResponse struct {
	Token string `json:"token"`
}

// Gateway はトークンの発行と検証を行う。
// 状態を持たないため、複数のゴルーチンから同時に利用できる。
type Gateway struct {
	// codec はトークンの署名・検証を行う。シークレットは生成時に注入される。
	codec *token.Codec
}

// New は指定されたCodecで署名・検証するGatewayを生成する。
func New(codec *token.Codec) *Gateway {
	return &Gateway{codec: codec}
}

// Handle はリクエストをメソッドとパスで振り分け、レスポンスを返す。
// どの経路でも必ずレスポンスを返し、エラーを呼び出し元に伝播させない。
//
//	GET  /token      → 405
//	GET  /           → トークン検証
//	GET  その他      → 404
//	POST /           → 405
//	POST その他      → トークン発行
//	その他のメソッド → 405
func (g *Gateway) Handle(ctx context.Context, req Request) Response {
	headers := normalizeHeaders(req.Headers)
	logger := zerolog.Ctx(ctx)

	switch req.Method {
	case http.MethodGet:
		if req.Path == tokenPath {
			return reject(logger, http.StatusMethodNotAllowed, "GET /tokenは許可されていません")
		}
		if req.Path != rootPath {
			return reject(logger, http.StatusNotFound, "存在しないパスです")
		}
		return g.validate(logger, headers)
	case http.MethodPost:
		if req.Path == rootPath {
			return reject(logger, http.StatusMethodNotAllowed, "POST /は許可されていません")
		}
		return g.issue(logger, headers, req.Body)
	default:
		return reject(logger, http.StatusMethodNotAllowed, "許可されていないメソッドです")
	}
}

// validate はBearerトークンを検証し、埋め込まれたdataを返す。
func (g *Gateway) validate(logger *zerolog.Logger, headers map[string]string) Response {
	scheme, tokenString, _ := strings.Cut(headers[headerAuthorization], " ")
	if scheme != bearerScheme {
		return reject(logger, http.StatusForbidden, "Bearerスキームではありません")
	}

	claims, err := g.codec.Verify(tokenString)
	switch kind := token.KindOf(err); kind {
	case token.Valid:
	case token.NotYetValid, token.Expired:
		logger.Debug().Err(err).Str("kind", kind.String()).Msg("トークンの有効期間外")
		return respond(nil, http.StatusUnauthorized)
	default:
		logger.Debug().Err(err).Str("kind", kind.String()).Msg("トークンが不正")
		return respond(nil, http.StatusForbidden)
	}

	data, err := decodeData(claims.Data)
	if err != nil {
		logger.Debug().Err(err).Msg("dataクレームが不正")
		return respond(nil, http.StatusForbidden)
	}
	return respond(data, http.StatusOK)
}

// decodeData はdataクレームを汎用の値に戻す。
// 数値はjson.Numberのまま保持し、桁落ちさせない。dataが無い場合はnilを返す。
func decodeData(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("dataのデコードに失敗: %w", err)
	}
	return v, nil
}

// issue はJSONボディをdataとして埋め込んだトークンを発行する。
func (g *Gateway) issue(logger *zerolog.Logger, headers map[string]string, body string) Response {
	if headers[headerContentType] != mimeJSON {
		return reject(logger, http.StatusUnsupportedMediaType, "Content-Typeがapplication/jsonではありません")
	}
	if !json.Valid([]byte(body)) {
		return reject(logger, http.StatusUnprocessableEntity, "ボディがJSONとして不正です")
	}

	signed, err := g.codec.Issue(json.RawMessage(body))
	if err != nil {
		logger.Error().Err(err).Msg("トークンの発行に失敗")
		return respond(nil, http.StatusInternalServerError)
	}

	logger.Debug().Dur("lifetime", g.codec.Lifetime()).Msg("トークンを発行")
	return respond(issueResponse{Token: signed}, http.StatusCreated)
}

// reject は理由をデバッグログに残し、ボディなしのレスポンスを返す。
func reject(logger *zerolog.Logger, status int, reason string) Response {
	logger.Debug().Int("status", status).Str("reason", reason).Msg("リクエストを拒否")
	return respond(nil, status)
}
