package token

import (
	"errors"
	"fmt"
)

// Kind はトークン検証結果の分類。
type Kind int

const (
	// Valid は署名・有効期間ともに問題がないことを表す。
	Valid Kind = iota
	// NotYetValid はnbfより前に検証されたことを表す。
	NotYetValid
	// Expired はexpを過ぎて検証されたことを表す。
	Expired
	// Invalid は署名不正・形式不正などその他すべての失敗を表す。
	Invalid
)

// String はKindの文字列表現を返す。
func (k Kind) String() string {
	switch k {
	case Valid:
		return "valid"
	case NotYetValid:
		return "not_yet_valid"
	case Expired:
		return "expired"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrEmptySecret は署名用シークレットが空の場合に返される。
var ErrEmptySecret = errors.New("署名用シークレットが空です")

// VerifyError はトークン検証の失敗を表す。
type VerifyError struct {
	// Kind は失敗の分類。
	Kind Kind
	// Err はJWTライブラリが返した元のエラー。
	Err error
}

// Error はerrorインターフェースを実装する。
func (e *VerifyError) Error() string {
	if e.Err == nil {
		return "トークン検証に失敗: " + e.Kind.String()
	}
	return fmt.Sprintf("トークン検証に失敗: %s: %v", e.Kind, e.Err)
}

// Unwrap は元のエラーを返す。
func (e *VerifyError) Unwrap() error {
	return e.Err
}

// KindOf はVerifyの戻り値のエラーからKindを取り出す。
// nilはValid、VerifyError以外のエラーはInvalidとして扱う。
func KindOf(err error) Kind {
	if err == nil {
		return Valid
	}
	var verr *VerifyError
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return Invalid
}
