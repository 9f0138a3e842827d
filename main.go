package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/gabiiasi/galeria/internal/app"
)

func main() {
	// 開発環境では.envファイルを読み込む（本番環境では環境変数を直接設定する）
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load()
	}

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "galeria: %v\n", err)
		os.Exit(1)
	}
}
