package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nao1215/tokengate/pkg/tokenclient"
)

// newIssueCommand はゲートウェイにトークンを発行させるissueコマンドを生成する。
func newIssueCommand(v *viper.Viper) *cobra.Command {
	var (
		data string
		path string
	)

	cmd := &cobra.Command{
		Use:     "issue",
		Short:   "JSONペイロードを埋め込んだトークンを発行する",
		Example: `  tokenctl issue --data '{"name":"bboe"}'` + "\n" + `  echo '{"user_id":128}' | tokenctl issue`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := readPayload(cmd, data)
			if err != nil {
				return err
			}

			server := serverURL(v)
			log.Debug().Str("server", server).Str("path", path).Msg("トークンを発行")

			tok, err := tokenclient.New(server).IssueRaw(cmd.Context(), path, payload)
			if err != nil {
				return fmt.Errorf("トークンの発行に失敗: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "JSONペイロード (省略時または - の場合は標準入力)")
	cmd.Flags().StringVar(&path, "path", tokenclient.DefaultIssuePath, "発行に使うパス (/ 以外)")
	return cmd
}
