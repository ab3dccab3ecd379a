package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nao1215/tokengate/internal/config"
)

// newMintCommand はゲートウェイを介さずにローカルで署名するmintコマンドを生成する。
// シークレットは --secret または環境変数 JWT_SECRET で指定する。
func newMintCommand(v *viper.Viper) *cobra.Command {
	var data string

	cmd := &cobra.Command{
		Use:     "mint",
		Short:   "ローカルでトークンに署名する（動作確認用）",
		Example: `  JWT_SECRET=ITSASECRET tokenctl mint --data '{"user_id":128}' --lifetime 1s`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			codec, err := cfg.Codec()
			if err != nil {
				return err
			}

			payload, err := readPayload(cmd, data)
			if err != nil {
				return err
			}
			if !json.Valid(payload) {
				return errors.New("ペイロードがJSONとして不正です")
			}

			tok, err := codec.Issue(json.RawMessage(payload))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSONペイロード (省略時または - の場合は標準入力)")

	cmd.Flags().String("secret", "", "署名用シークレット (環境変数 JWT_SECRET)")
	_ = v.BindPFlag(config.KeySecret, cmd.Flags().Lookup("secret"))

	cmd.Flags().String("lifetime", "", "有効期間 (例: 10s, 環境変数 TOKEN_LIFETIME)")
	_ = v.BindPFlag(config.KeyLifetime, cmd.Flags().Lookup("lifetime"))

	cmd.Flags().String("not-before-delay", "", "nbfまでの猶予 (例: 2s, 環境変数 TOKEN_NOT_BEFORE_DELAY)")
	_ = v.BindPFlag(config.KeyNotBeforeDelay, cmd.Flags().Lookup("not-before-delay"))

	return cmd
}
