package tokenclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultIssuePath はトークン発行に使う既定のパス。
// ゲートウェイは "/" 以外の任意のパスで発行を受け付ける。
const DefaultIssuePath = "/token"

// StatusError はゲートウェイが想定外のステータスコードを返したことを表す。
type StatusError struct {
	// StatusCode はHTTPステータスコード。
	StatusCode int
	// Body はレスポンスボディ。
	Body string
}

// Error はerrorインターフェースを実装する。
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTPエラー: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("HTTPエラー: status=%d, body=%s", e.StatusCode, e.Body)
}

// Client はトークンゲートウェイのHTTPクライアント。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL はゲートウェイのベースURL。
	baseURL string
}

// New は新しいクライアントを生成する。
// baseURLにはゲートウェイのベースURL（例: "http://localhost:8080"）を指定する。
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// issueResponse はトークン発行レスポンスのボディ。
type issueResponse struct {
	Token string `json:"token"`
}

// Issue はpayloadをJSONにシリアライズしてトークンを発行する。
func (c *Client) Issue(ctx context.Context, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
	}
	return c.IssueRaw(ctx, path, body)
}

// IssueRaw はJSONのバイト列をそのまま送信してトークンを発行する。
func (c *Client) IssueRaw(ctx context.Context, path string, body []byte) (string, error) {
	if path == "" {
		path = DefaultIssuePath
	}

	respBody, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	}, http.StatusCreated)
	if err != nil {
		return "", err
	}

	var result issueResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
	}
	if result.Token == "" {
		return "", fmt.Errorf("レスポンスにトークンが含まれていません")
	}
	return result.Token, nil
}

// Validate はトークンを検証し、埋め込まれたdataをJSONのまま返す。
func (c *Client) Validate(ctx context.Context, token string) (json.RawMessage, error) {
	respBody, err := c.do(ctx, http.MethodGet, "/", nil, map[string]string{
		"Authorization": "Bearer " + token,
	}, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(bytes.TrimSpace(respBody)), nil
}

// do はHTTPリクエストを実行し、wantStatus以外のステータスコードをStatusErrorとして返す。
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string, wantStatus int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}
