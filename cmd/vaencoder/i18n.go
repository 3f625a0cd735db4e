// Package main provides localization for the vaencoder CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Runtime messages
		"Encoding %s (%s mode, %s)...":  "%s をエンコード中 (%s モード, %s)...",
		"Output saved to %s":            "出力を %s に保存しました",
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"interrupted":                   "中断されました",
		"Summary saved to %s":           "サマリーを %s に保存しました",
		"Failed to write the summary: %v": "サマリーの書き込みに失敗しました: %v",
		"Encoded %d frames, encode time: average %s, max %s (frame %d), min %s (frame %d)": "%d フレームをエンコードしました。エンコード時間: 平均 %s, 最大 %s (フレーム %d), 最小 %s (フレーム %d)",

		// Version command
		"vaencoder (Go) version %s": "vaencoder (Go版) バージョン %s",
	})
}
