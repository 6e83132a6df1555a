// Package app 提供转轮演示应用的核心包装器
//
// 该包把引擎、输入、时钟和设置持久化接到 ebiten 的游戏循环上，
// main 包只负责解析命令行参数和启动窗口。
package app

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/quasilyte/gdata/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/decker502/slotreel/pkg/config"
	"github.com/decker502/slotreel/pkg/game"
	"github.com/decker502/slotreel/pkg/reel"
	"github.com/decker502/slotreel/pkg/utils"
)

// defaultItems 无配置文件时的内置条目（移动端构建没有本地数据文件）
var defaultItems = []string{"Cherry", "Lemon", "Orange", "Plum", "Bell", "Bar", "Seven"}

// 默认窗口逻辑尺寸
const (
	DefaultWidth  = 480
	DefaultHeight = 640
)

// Config 定义应用启动配置
type Config struct {
	// ConfigPath 转轮配置文件路径（YAML）
	ConfigPath string
	// Speed 覆盖配置文件中的滚动速度，0 表示不覆盖
	Speed float64
	// Verbose 启用详细日志输出和调试 HUD
	Verbose bool
	// Fullscreen 启动时全屏
	Fullscreen bool
}

// App 是演示应用的核心包装器，实现 ebiten.Game 接口
//
// Update 把真实时钟转换为单调递增的时间戳喂给引擎，
// 并把键盘输入映射为引擎的公开操作：
//
//	Space  随机旋转
//	1..9   旋转到对应条目
//	L      循环滚动 / 停止切换
//	V      渐变遮罩开关
//	F      全屏切换（持久化到设置）
type App struct {
	engine   *reel.Engine
	cfg      *config.ReelConfig
	settings *game.SettingsManager
	verbose  bool

	start time.Time

	// 当前逻辑尺寸；窗口缩放时在安全时机（非 spin）重新布局
	width, height      int
	pendingW, pendingH int
}

// NewApp 创建并初始化演示应用
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	// 加载转轮配置；路径为空时使用内置默认（移动端）
	var reelCfg *config.ReelConfig
	if cfg.ConfigPath != "" {
		loaded, err := config.LoadReelConfig(cfg.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("转轮配置加载失败: %w", err)
		}
		reelCfg = loaded
	} else {
		reelCfg = config.DefaultReelConfig()
		reelCfg.Items = defaultItems
	}
	if cfg.Speed > 0 {
		reelCfg.Speed = cfg.Speed
	}

	// 加载应用设置（gdata 不可用时降级为内存模式）
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Storage directory unavailable: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: "slotreel"})
	if err != nil {
		log.Printf("[App] gdata unavailable: %v (settings will not persist)", err)
		gdataManager = nil
	}
	settings, err := game.NewSettingsManager(gdataManager)
	if err != nil {
		return nil, fmt.Errorf("设置管理器初始化失败: %w", err)
	}
	if s := settings.GetSettings().LoopSpeed; s > 0 && cfg.Speed == 0 {
		reelCfg.Speed = s
	}
	if settings.GetSettings().Fullscreen || cfg.Fullscreen {
		ebiten.SetFullscreen(true)
	}

	// 按配置的字重构建字体
	face, err := buildFace(reelCfg)
	if err != nil {
		return nil, fmt.Errorf("字体加载失败: %w", err)
	}

	// 创建引擎并默认进入循环滚动
	engine, err := reel.New(reelCfg.Items, reelCfg, reel.FaceMetrics{Face: face},
		DefaultWidth, DefaultHeight)
	if err != nil {
		return nil, fmt.Errorf("转轮引擎初始化失败: %w", err)
	}
	engine.SetFace(face)
	engine.OnStop(func(index int) {
		log.Printf("[App] Spin stopped at %d (%s)", index, reelCfg.Items[index])
	})
	engine.StartLoop(0)

	return &App{
		engine:   engine,
		cfg:      reelCfg,
		settings: settings,
		verbose:  cfg.Verbose,
		start:    time.Now(),
		width:    DefaultWidth,
		height:   DefaultHeight,
		pendingW: DefaultWidth,
		pendingH: DefaultHeight,
	}, nil
}

// buildFace 从内置 Go 字体构建文本 face
func buildFace(cfg *config.ReelConfig) (text.Face, error) {
	ttf := goregular.TTF
	if cfg.FontWeight == "bold" {
		ttf = gobold.TTF
	}
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &text.GoTextFace{Source: source, Size: cfg.FontSize}, nil
}

// Update 处理输入并推进引擎状态机
func (a *App) Update() error {
	a.handleInput()

	// 窗口尺寸变化：旋转中禁止重算布局，推迟到停轮后
	if (a.pendingW != a.width || a.pendingH != a.height) && a.engine.Mode() != reel.ModeSpin {
		if err := a.engine.Relayout(a.pendingW, a.pendingH, nil); err == nil {
			a.width, a.height = a.pendingW, a.pendingH
		}
	}

	a.engine.Tick(time.Since(a.start).Seconds())
	return nil
}

// handleInput 把键盘输入映射到引擎操作
func (a *App) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		idx := a.engine.SpinRandom(reel.SpinOptions{})
		log.Printf("[App] Spinning to random index %d", idx)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		if a.engine.Mode() == reel.ModeLoop {
			a.engine.StopLoop()
		} else {
			a.engine.StartLoop(0)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		a.engine.SetVignetteEnabled(!a.engine.VignetteEnabled())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		a.settings.SetFullscreen(fullscreen)
		if err := a.settings.Save(); err != nil {
			log.Printf("[App] Failed to save settings: %v", err)
		}
	}

	// 数字键 1..9 直接旋转到对应条目（越界索引由引擎归一化）
	for i, key := range []ebiten.Key{
		ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
		ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
		ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
	} {
		if inpututil.IsKeyJustPressed(key) {
			a.engine.Spin(i, reel.SpinOptions{})
		}
	}
}

// Draw 渲染当前帧
func (a *App) Draw(screen *ebiten.Image) {
	a.engine.Draw(screen)

	if a.verbose {
		st := a.engine.SpinState()
		// 半透明底板保证 HUD 文字在任意背景色上可读
		vector.DrawFilledRect(screen, 0, 0, 260, 36, color.RGBA{A: 160}, false)
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"mode=%s offset=%.1f target=%d p=%.2f\nTPS=%.0f",
			st.Mode, st.Offset, st.TargetIndex, st.HighlightProgress,
			ebiten.ActualTPS()))
	}
}

// Layout 返回逻辑屏幕尺寸，窗口缩放时跟随外部尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		a.pendingW, a.pendingH = outsideWidth, outsideHeight
	}
	return a.width, a.height
}
