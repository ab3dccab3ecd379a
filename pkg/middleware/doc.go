// Package middleware はゲートウェイのHTTPサーバーで使用するGinミドルウェアを提供する。
//
// リクエストIDの付与、zerologによるアクセスログ、パニックリカバリを含む。
package middleware
