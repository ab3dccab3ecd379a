package gateway

import (
	"bytes"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// respond はbodyをJSONにエンコードし末尾に改行を付けたレスポンスを生成する。
// bodyがnilの場合は空のボディを返す。エンコードに失敗しても空のボディで応答する。
func respond(body any, status int) Response {
	if body == nil {
		return Response{StatusCode: status}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encodeは末尾に改行を付与する
	if err := enc.Encode(body); err != nil {
		log.Error().Err(err).Int("status", status).Msg("レスポンスボディのエンコードに失敗")
		return Response{StatusCode: status}
	}
	return Response{StatusCode: status, Body: buf.String()}
}
