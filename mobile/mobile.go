//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包，
// 仅在使用 -tags mobile 构建时编译：
//
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.slotreel -o build/android/slotreel.aar -v ./mobile
//	ebitenmobile bind -target ios -tags mobile -o build/ios/SlotReel.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/slotreel/pkg/app"
)

func init() {
	// 移动端没有本地数据文件，空路径使用内置条目和默认样式
	a, err := app.NewApp(app.Config{
		ConfigPath: "",
		Verbose:    true,
	})
	if err != nil {
		log.Fatalf("转轮初始化失败: %v", err)
	}

	mobile.SetGame(a)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
