package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages
		"Encoding %d JPEG frames at %dx%d, quality %d": "%d フレームを %dx%d, 品質 %d で JPEG エンコード中",
		"Encoding %d %s frames at %dx%d, %d bps":       "%d フレームを %s, %dx%d, %d bps でエンコード中",
		"Prepared %d %s source frames":                 "%d 枚の %s ソースフレームを準備しました",
		"Frame %d: %d bytes in %s":                     "フレーム %d: %d バイト (%s)",
		"Encoded %d frames, %d bytes":                  "%d フレーム, %d バイトをエンコードしました",
		"Interrupted after %d frames":                  "%d フレームで中断されました",
		"Failed to initialize the encoder: %v":         "エンコーダの初期化に失敗しました: %v",
		"Failed to create the %s encoder: %v":          "%s エンコーダの作成に失敗しました: %v",
		"Failed to start the encoder: %v":              "エンコーダの開始に失敗しました: %v",
		"Failed to register source %d: %v":             "ソース %d の登録に失敗しました: %v",
		"Failed to create the encode context: %v":      "エンコードコンテキストの作成に失敗しました: %v",
		"Failed to encode frame %d: %v":                "フレーム %d のエンコードに失敗しました: %v",
		"Failed to retrieve frame %d: %v":              "フレーム %d の取得に失敗しました: %v",
		"Failed to write frame %d: %v":                 "フレーム %d の書き込みに失敗しました: %v",
		"Teardown after a failed run reported: %v":     "失敗後の後始末でエラーが報告されました: %v",

		// Image encoder lifecycle
		"LibVA version %d.%d":                          "LibVA バージョン %d.%d",
		"Driver version: %s":                           "ドライバのバージョン: %s",
		"Encoder initialized, formats 0x%x":            "エンコーダを初期化しました (フォーマット 0x%x)",
		"Encoder deinitialized":                        "エンコーダを終了しました",
		"Initialize rejected: already %s":              "Initialize を拒否: すでに %s です",
		"Deinitialize rejected: no display":            "Deinitialize を拒否: ディスプレイがありません",
		"Deinitialize rejected: encoding in progress":  "Deinitialize を拒否: エンコード中です",
		"No JPEG baseline encoding entrypoint was found": "JPEG ベースラインのエンコードエントリポイントが見つかりません",

		// Image encoder surfaces
		"Surface %d created: %dx%d %s":                       "サーフェス %d を作成しました: %dx%d %s",
		"Surface %d destroyed":                               "サーフェス %d を破棄しました",
		"No free surface slot":                               "空きサーフェススロットがありません",
		"CreateSourceSurface rejected: uninitialized":        "CreateSourceSurface を拒否: 初期化されていません",
		"CreateSourceSurface rejected: %d surfaces already exist": "CreateSourceSurface を拒否: すでに %d 個のサーフェスがあります",
		"DestroySourceSurface rejected: uninitialized":       "DestroySourceSurface を拒否: 初期化されていません",
		"DestroySourceSurface rejected: no surfaces":         "DestroySourceSurface を拒否: サーフェスがありません",
		"Invalid image sequence number %d":                   "無効な画像シーケンス番号 %d",
		"Image %d is being encoded and can't be destroyed":   "画像 %d はエンコード中のため破棄できません",
		"Image %d is gone, probably already destroyed":       "画像 %d が見つかりません。すでに破棄された可能性があります",
		"The input buffer can't be empty":                    "入力バッファが空です",
		"The input buffer holds %d bytes, %d required":       "入力バッファは %d バイトですが %d バイト必要です",
		"The user buffer 0x%x is not aligned to %d":          "ユーザーバッファ 0x%x が %d 境界に揃っていません",
		"The stride %d is not aligned to %d":                 "ストライド %d が %d 境界に揃っていません",
		"Invalid geometry %dx%d with stride %d":              "無効なジオメトリ %dx%d (ストライド %d)",
		"Only even dimensions are supported, got %dx%d":      "偶数の寸法のみ対応しています (%dx%d)",
		"The image format %s is not supported":               "画像フォーマット %s には対応していません",
		"Buffer type 0x%x is not supported":                  "バッファタイプ 0x%x には対応していません",

		// Image encoder context and encode
		"Context created: %dx%d %s, coded buffer %d bytes":          "コンテキストを作成しました: %dx%d %s, 符号化バッファ %d バイト",
		"Context destroyed":                                         "コンテキストを破棄しました",
		"CreateContext rejected: uninitialized":                     "CreateContext を拒否: 初期化されていません",
		"CreateContext rejected: a context already exists":          "CreateContext を拒否: すでにコンテキストがあります",
		"DestroyContext rejected: no context":                       "DestroyContext を拒否: コンテキストがありません",
		"DestroyContext rejected: encoding in progress":             "DestroyContext を拒否: エンコード中です",
		"Image %d (%dx%d %s) doesn't fit the context (%dx%d %s)":    "画像 %d (%dx%d %s) はコンテキスト (%dx%d %s) に合いません",
		"Encode rejected: no context":                               "Encode を拒否: コンテキストがありません",
		"Encode rejected: an encode job is already active":          "Encode を拒否: すでにエンコードジョブがあります",
		"Encode of image %d submitted at quality %d":                "画像 %d を品質 %d でエンコード投入しました",
		"Invalid quality %d, encoding aborted":                      "無効な品質 %d のためエンコードを中止しました",
		"Invalid quality %d, not updated":                           "無効な品質 %d のため更新しませんでした",
		"Can't update quality while encoding":                       "エンコード中は品質を変更できません",
		"Quality updated to %d":                                     "品質を %d に更新しました",
		"GetCoded rejected: no encode job active":                   "GetCoded を拒否: エンコードジョブがありません",
		"The coded buffer holds %d bytes, %d required":              "符号化バッファは %d バイトですが %d バイト必要です",
		"Coded data retrieved: %d bytes":                            "符号化データを取得しました: %d バイト",
		"Coded data could not be copied: %v":                        "符号化データをコピーできませんでした: %v",

		// Video encoder
		"No H.263 baseline encoding entrypoint was found":                 "H.263 ベースラインのエンコードエントリポイントが見つかりません",
		"Session started: %dx%d, coded buffers %d bytes":                  "セッションを開始しました: %dx%d, 符号化バッファ %d バイト",
		"Session stopped after %d frames":                                 "%d フレーム後にセッションを停止しました",
		"Cleanup after a failed start reported: %v":                       "開始失敗後の後始末でエラーが報告されました: %v",
		"Frame %d coded: %d bytes, intra %t":                              "フレーム %d を符号化しました: %d バイト, イントラ %t",
		"Sequence: %d bps, %d fps, QP %d/%d, intra period %d":             "シーケンス: %d bps, %d fps, QP %d/%d, イントラ周期 %d",
		"Picture: ref 0x%08x, rec 0x%08x, coded 0x%08x (index %d), type %d": "ピクチャ: 参照 0x%08x, 再構成 0x%08x, 符号化 0x%08x (インデックス %d), タイプ %d",
		"Slice: start row %d, %d MB rows, intra %t":                       "スライス: 開始行 %d, %d MB 行, イントラ %t",

		// Driver calls
		"vaGetDisplay failed: %v":                              "vaGetDisplay に失敗しました: %v",
		"vaInitialize failed: %v":                              "vaInitialize に失敗しました: %v",
		"vaTerminate failed: %v":                               "vaTerminate に失敗しました: %v",
		"vaTerminate failed during rollback: %v":               "ロールバック中に vaTerminate が失敗しました: %v",
		"vaQueryVendorString failed: %v":                       "vaQueryVendorString に失敗しました: %v",
		"vaQueryConfigEntrypoints failed: %v":                  "vaQueryConfigEntrypoints に失敗しました: %v",
		"vaGetConfigAttributes failed: %v":                     "vaGetConfigAttributes に失敗しました: %v",
		"vaCreateConfig failed: %v":                            "vaCreateConfig に失敗しました: %v",
		"vaDestroyConfig failed: %v":                           "vaDestroyConfig に失敗しました: %v",
		"vaDestroyConfig failed during rollback: %v":           "ロールバック中に vaDestroyConfig が失敗しました: %v",
		"vaCreateSurfaces failed: %v":                          "vaCreateSurfaces に失敗しました: %v",
		"vaDestroySurfaces failed: %v":                         "vaDestroySurfaces に失敗しました: %v",
		"vaCreateContext failed: %v":                           "vaCreateContext に失敗しました: %v",
		"vaDestroyContext failed: %v":                          "vaDestroyContext に失敗しました: %v",
		"vaDestroyContext failed during rollback: %v":          "ロールバック中に vaDestroyContext が失敗しました: %v",
		"vaCreateBuffer failed: %v":                            "vaCreateBuffer に失敗しました: %v",
		"vaCreateBuffer for coded buffer %d failed: %v":        "符号化バッファ %d の vaCreateBuffer に失敗しました: %v",
		"vaCreateBuffer for the coded buffer failed: %v":       "符号化バッファの vaCreateBuffer に失敗しました: %v",
		"vaCreateBuffer for the picture parameters failed: %v": "ピクチャパラメータの vaCreateBuffer に失敗しました: %v",
		"vaDestroyBuffer for the coded buffer failed: %v":      "符号化バッファの vaDestroyBuffer に失敗しました: %v",
		"vaDestroyBuffer for the picture parameters failed: %v": "ピクチャパラメータの vaDestroyBuffer に失敗しました: %v",
		"vaBeginPicture failed: %v":                            "vaBeginPicture に失敗しました: %v",
		"vaRenderPicture failed: %v":                           "vaRenderPicture に失敗しました: %v",
		"vaEndPicture failed: %v":                              "vaEndPicture に失敗しました: %v",
		"vaEndPicture after a failed command: %v":              "コマンド失敗後の vaEndPicture: %v",
		"vaSyncSurface failed: %v":                             "vaSyncSurface に失敗しました: %v",
		"vaMapBuffer failed: %v":                               "vaMapBuffer に失敗しました: %v",
		"vaMapBuffer returned %T for a slice buffer":           "vaMapBuffer がスライスバッファに対して %T を返しました",
		"vaUnmapBuffer failed: %v":                             "vaUnmapBuffer に失敗しました: %v",
	})
}
