// tokenctl はトークンゲートウェイのコマンドラインクライアント。
package main

import (
	"os"

	"github.com/nao1215/tokengate/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
