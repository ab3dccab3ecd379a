// Package cli はトークンゲートウェイを操作するtokenctlコマンドを提供する。
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nao1215/tokengate/internal/config"
	"github.com/nao1215/tokengate/internal/logging"
)

// Version はビルド時に -ldflags で埋め込まれるバージョン。
var Version = "dev"

// keyServer はゲートウェイのベースURLの設定キー（環境変数 SERVER）。
const keyServer = "server"

// NewRootCommand はtokenctlのルートコマンドを生成する。
func NewRootCommand() *cobra.Command {
	v := config.New()
	v.SetDefault(keyServer, "http://localhost:8080")

	root := &cobra.Command{
		Use:   "tokenctl",
		Short: fmt.Sprintf("トークンゲートウェイのクライアント (version: %s)", Version),
		Long: `tokenctl はトークンゲートウェイに対してトークンの発行と検証を行う。
mint サブコマンドはゲートウェイを介さずにローカルでトークンに署名する。`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return logging.Init(v.GetString(config.KeyLogLevel), v.GetString(config.KeyLogFormat))
		},
	}

	root.PersistentFlags().String("log-level", "info", "ログレベル (debug, info, warn, error)")
	_ = v.BindPFlag(config.KeyLogLevel, root.PersistentFlags().Lookup("log-level"))

	root.PersistentFlags().String("log-format", "console", "ログ形式 (console, json)")
	_ = v.BindPFlag(config.KeyLogFormat, root.PersistentFlags().Lookup("log-format"))

	root.PersistentFlags().String("server", "http://localhost:8080", "ゲートウェイのベースURL (環境変数 SERVER)")
	_ = v.BindPFlag(keyServer, root.PersistentFlags().Lookup("server"))

	root.AddCommand(
		newIssueCommand(v),
		newValidateCommand(v),
		newMintCommand(v),
		newVersionCommand(),
	)
	return root
}

// Execute はルートコマンドを実行する。
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "エラー:", err)
		return 1
	}
	return 0
}

// readPayload は--dataの値、または標準入力からJSONペイロードを読み込む。
func readPayload(cmd *cobra.Command, data string) ([]byte, error) {
	if data != "" && data != "-" {
		return []byte(data), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("標準入力の読み取りに失敗: %w", err)
	}
	return []byte(strings.TrimSpace(string(b))), nil
}

// serverURL はサーバーのベースURLを返す。
func serverURL(v *viper.Viper) string {
	return v.GetString(keyServer)
}
