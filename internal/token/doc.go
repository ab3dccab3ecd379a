// Package token はトークンゲートウェイが発行・検証するHS256署名付きJWTを扱う。
//
// クレームは呼び出し元の任意のJSON値（data）と有効期間（nbf / exp）のみで構成される。
// 検証結果は Kind で分類され、ゲートウェイがHTTPステータスコードへ対応付ける。
package token
