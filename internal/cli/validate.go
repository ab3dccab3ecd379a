package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nao1215/tokengate/pkg/tokenclient"
)

// newValidateCommand はトークンを検証してペイロードを表示するvalidateコマンドを生成する。
func newValidateCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate TOKEN",
		Short: "トークンを検証し、埋め込まれたペイロードを表示する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := tokenclient.New(serverURL(v)).Validate(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("トークンの検証に失敗: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
