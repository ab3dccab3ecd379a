package token

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
)

// testSecret はテスト用のHS256シークレット。
const testSecret = "test-secret-key-for-unit-tests"

// fixedClock は常に同じ時刻を返す時計を生成する。
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// baseTime はテストで使用する基準時刻。秒未満を持たないようにする。
var baseTime = time.Unix(1_700_000_000, 0)

// newTestCodec はテスト用のCodecを生成する。
func newTestCodec(t *testing.T, opts ...Option) *Codec {
	t.Helper()

	c, err := NewCodec(testSecret, opts...)
	if err != nil {
		t.Fatalf("NewCodec()でエラーが発生: %v", err)
	}
	return c
}

// TestNewCodec はCodecの生成時の検証を確認する。
func TestNewCodec(t *testing.T) {
	t.Parallel()

	t.Run("既定値で生成できること", func(t *testing.T) {
		t.Parallel()

		c := newTestCodec(t)
		if c.Lifetime() != DefaultLifetime {
			t.Errorf("Lifetime() = %s, want %s", c.Lifetime(), DefaultLifetime)
		}
	})

	tests := []struct {
		name   string
		secret string
		opts   []Option
		want   error
	}{
		{name: "シークレットが空の場合はエラー", secret: "", want: ErrEmptySecret},
		{name: "有効期間が0の場合はエラー", secret: testSecret, opts: []Option{WithLifetime(0)}},
		{name: "nbfの猶予が負の場合はエラー", secret: testSecret, opts: []Option{WithNotBeforeDelay(-time.Second)}},
		{
			name:   "nbfの猶予が有効期間以上の場合はエラー",
			secret: testSecret,
			opts:   []Option{WithLifetime(5 * time.Second), WithNotBeforeDelay(5 * time.Second)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewCodec(tt.secret, tt.opts...)
			if err == nil {
				t.Fatal("エラーが返されるべき")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestIssue はトークン発行を検証する。
func TestIssue(t *testing.T) {
	t.Parallel()

	t.Run("data・exp・nbfのみを含むHS256トークンが発行されること", func(t *testing.T) {
		t.Parallel()

		c := newTestCodec(t,
			WithClock(fixedClock(baseTime)),
			WithLifetime(5*time.Second),
			WithNotBeforeDelay(2*time.Second),
		)

		signed, err := c.Issue(json.RawMessage(`{"name":"bboe"}`))
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}

		parts := strings.Split(signed, ".")
		if len(parts) != 3 {
			t.Fatalf("トークンのセグメント数 = %d, want 3", len(parts))
		}

		parser := jwt.NewParser()
		raw := jwt.MapClaims{}
		tok, _, err := parser.ParseUnverified(signed, raw)
		if err != nil {
			t.Fatalf("トークンのパースに失敗: %v", err)
		}
		if tok.Method.Alg() != "HS256" {
			t.Errorf("alg = %q, want %q", tok.Method.Alg(), "HS256")
		}

		want := jwt.MapClaims{
			"data": map[string]any{"name": "bboe"},
			"exp":  float64(baseTime.Unix() + 5),
			"nbf":  float64(baseTime.Unix() + 2),
		}
		if diff := cmp.Diff(want, raw); diff != "" {
			t.Errorf("クレームが一致しない (-want +got):\n%s", diff)
		}
	})
}

// TestVerify はトークン検証の分類を確認する。
func TestVerify(t *testing.T) {
	t.Parallel()

	t.Run("発行直後のトークンはdataをそのまま返すこと", func(t *testing.T) {
		t.Parallel()

		c := newTestCodec(t, WithClock(fixedClock(baseTime)))
		signed, err := c.Issue(json.RawMessage(`{"user_id":128,"tags":["a","b"]}`))
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}

		claims, err := c.Verify(signed)
		if err != nil {
			t.Fatalf("Verify()でエラーが発生: %v", err)
		}
		if got := string(claims.Data); got != `{"user_id":128,"tags":["a","b"]}` {
			t.Errorf("Data = %s, want %s", got, `{"user_id":128,"tags":["a","b"]}`)
		}
	})

	t.Run("大きな整数が精度を失わないこと", func(t *testing.T) {
		t.Parallel()

		c := newTestCodec(t, WithClock(fixedClock(baseTime)))
		signed, err := c.Issue(json.RawMessage(`9007199254740993`))
		if err != nil {
			t.Fatalf("Issue()でエラーが発生: %v", err)
		}
		claims, err := c.Verify(signed)
		if err != nil {
			t.Fatalf("Verify()でエラーが発生: %v", err)
		}
		if got := string(claims.Data); got != "9007199254740993" {
			t.Errorf("Data = %s, want 9007199254740993", got)
		}
	})

	issuer := newTestCodec(t,
		WithClock(fixedClock(baseTime)),
		WithLifetime(5*time.Second),
		WithNotBeforeDelay(2*time.Second),
	)
	signed, err := issuer.Issue(json.RawMessage(`{"name":"bboe"}`))
	if err != nil {
		t.Fatalf("Issue()でエラーが発生: %v", err)
	}

	otherSecret, err := NewCodec("another-secret", WithClock(fixedClock(baseTime.Add(3*time.Second))))
	if err != nil {
		t.Fatalf("NewCodec()でエラーが発生: %v", err)
	}
	foreign, err := otherSecret.Issue(json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("Issue()でエラーが発生: %v", err)
	}

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Data: json.RawMessage(`{}`),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(baseTime.Add(time.Minute)),
		},
	})
	hs512Signed, err := hs512.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("HS512トークンの署名に失敗: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"data": "x"})
	noneSigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("noneトークンの生成に失敗: %v", err)
	}

	// 署名部の先頭文字を差し替えて改ざんする
	sig := signed[strings.LastIndex(signed, ".")+1:]
	replacement := "A"
	if sig[0] == 'A' {
		replacement = "B"
	}
	tampered := signed[:strings.LastIndex(signed, ".")+1] + replacement + sig[1:]

	tests := []struct {
		name  string
		token string
		at    time.Time
		want  Kind
	}{
		{name: "nbf以降exp以前は有効", token: signed, at: baseTime.Add(3 * time.Second), want: Valid},
		{name: "nbfちょうどは有効", token: signed, at: baseTime.Add(2 * time.Second), want: Valid},
		{name: "nbfより前は未有効", token: signed, at: baseTime, want: NotYetValid},
		{name: "expちょうどは期限切れ", token: signed, at: baseTime.Add(5 * time.Second), want: Expired},
		{name: "expより後は期限切れ", token: signed, at: baseTime.Add(time.Hour), want: Expired},
		{name: "署名が改ざんされたトークンは不正", token: tampered, at: baseTime.Add(3 * time.Second), want: Invalid},
		{name: "別のシークレットで署名されたトークンは不正", token: foreign, at: baseTime.Add(4 * time.Second), want: Invalid},
		{name: "期限切れでも署名不正なら不正", token: tampered, at: baseTime.Add(time.Hour), want: Invalid},
		{name: "HS512トークンは不正", token: hs512Signed, at: baseTime, want: Invalid},
		{name: "alg=noneトークンは不正", token: noneSigned, at: baseTime, want: Invalid},
		{name: "空文字列は不正", token: "", at: baseTime, want: Invalid},
		{name: "JWT形式でない文字列は不正", token: "garbage", at: baseTime, want: Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			verifier := newTestCodec(t,
				WithClock(fixedClock(tt.at)),
				WithLifetime(5*time.Second),
				WithNotBeforeDelay(2*time.Second),
			)
			claims, err := verifier.Verify(tt.token)
			if got := KindOf(err); got != tt.want {
				t.Fatalf("KindOf(err) = %s, want %s (err=%v)", got, tt.want, err)
			}
			if tt.want == Valid {
				if claims == nil {
					t.Fatal("有効なトークンでクレームがnil")
				}
				return
			}
			var verr *VerifyError
			if !errors.As(err, &verr) {
				t.Fatalf("エラーが*VerifyErrorではない: %T", err)
			}
			if claims != nil {
				t.Error("失敗時にクレームが返された")
			}
		})
	}
}

// TestKindOf はKindOfの対応付けを検証する。
func TestKindOf(t *testing.T) {
	t.Parallel()

	if got := KindOf(nil); got != Valid {
		t.Errorf("KindOf(nil) = %s, want %s", got, Valid)
	}
	if got := KindOf(errors.New("other")); got != Invalid {
		t.Errorf("KindOf(other) = %s, want %s", got, Invalid)
	}
	wrapped := errors.Join(errors.New("outer"), &VerifyError{Kind: Expired})
	if got := KindOf(wrapped); got != Expired {
		t.Errorf("KindOf(wrapped) = %s, want %s", got, Expired)
	}
}
