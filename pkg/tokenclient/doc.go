// Package tokenclient はトークンゲートウェイのHTTPクライアントを提供する。
//
// トークンの発行（POST）と検証（GET /）を行い、ゲートウェイが返すステータスコードを
// StatusError として呼び出し元に伝える。
package tokenclient
