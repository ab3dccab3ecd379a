package gateway

import (
	"maps"
	"slices"
	"strings"
)

// Request はゲートウェイが受け取るリクエスト。
// 転送層（HTTPサーバーやLambda）がこの形に変換して渡す。
type Request struct {
	// Method はHTTPメソッド。
	Method string
	// Path はリクエストパス。
	Path string
	// Headers はリクエストヘッダー。ヘッダー名の大文字小文字は問わない。
	Headers map[string]string
	// Body は生のリクエストボディ。
	Body string
}

// Response はゲートウェイが返すレスポンス。
type Response struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int
	// Body はJSONに末尾改行を付けた文字列、または空文字列。
	Body string
}

// normalizeHeaders はヘッダー名を小文字に揃えたマップを返す。
// 小文字化すると同じ名前になるヘッダーが複数ある場合は、名前の昇順で最後のものが残る。
func normalizeHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for _, name := range slices.Sorted(maps.Keys(headers)) {
		out[strings.ToLower(name)] = headers[name]
	}
	return out
}
