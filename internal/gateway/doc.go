// Package gateway はトークンゲートウェイの本体を提供する。
//
// JSONペイロードを受け取って短命な署名付きトークンを発行し（POST）、
// Bearerトークンを検証して埋め込まれたペイロードを返す（GET /）。
// ルーティングとステータスコードの方針はすべて Gateway.Handle に集約されており、
// HTTPサーバー（Server）やAWS Lambdaはリクエストを変換して渡すだけの薄い層となる。
package gateway
