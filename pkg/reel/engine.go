// Package reel 实现垂直转轮（老虎机式滚动列表）动画引擎
//
// 引擎是被动的：外部调度器（如 ebiten 的游戏循环）按帧喂入单调递增的
// 时间戳，Tick 推进状态机，Draw 输出当前帧画面。运动模型与合成器都是
// 当前状态的纯函数，便于用合成时间戳做无显示测试。
package reel

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/decker502/slotreel/pkg/config"
	"github.com/decker502/slotreel/pkg/utils"
)

// DefaultRotations 旋转停轮前的默认完整圈数
const DefaultRotations = 6

// SpinOptions 旋转参数
type SpinOptions struct {
	// Rotations 停轮前经过的完整圈数；0 表示使用配置值（默认 6）
	Rotations int
}

// Engine 转轮动画引擎
//
// 每个转轮独立实例化，互不共享状态。所有修改器（StartLoop/StopLoop/
// Spin/SpinTo）可以在任意模式下调用，在下一次 Tick 原子生效。
type Engine struct {
	items []string
	cfg   *config.ReelConfig

	state State
	speed float64 // 当前滚动速度（像素/秒），StartLoop 可覆盖配置值

	// 布局
	width      int
	height     int
	lineHeight float64
	metrics    TextMetrics

	// 渲染资源
	face            text.Face
	bgColor         color.RGBA
	rowColors       []color.RGBA
	vignette        *ebiten.Image // 1 像素宽的半高渐变条，绘制时拉伸/翻转
	vignetteDirty   bool
	vignetteFailed  bool
	vignetteEnabled bool

	onStop func(index int)

	// 时钟锚点
	lastTick      float64
	anchorPending bool // 外部触发的模式切换在下一次 Tick 锚定起始时间
}

// New 创建转轮引擎
//
// 参数:
//   - items: 条目列表（引擎生命周期内不可变）
//   - cfg: 样式与运动配置（引擎只读）
//   - metrics: 文本度量服务，用于计算行高
//   - width, height: 绘制表面逻辑尺寸（像素）
//
// 返回:
//   - *Engine: 引擎实例，初始为 idle 模式
//   - error: 配置非法（空条目、非正速度等）时返回错误
func New(items []string, cfg *config.ReelConfig, metrics TextMetrics, width, height int) (*Engine, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("reel requires at least one item")
	}
	if cfg.Speed <= 0 {
		return nil, fmt.Errorf("reel speed must be positive, got %.2f", cfg.Speed)
	}
	if cfg.LineSpacing <= 0 {
		return nil, fmt.Errorf("reel lineSpacing must be positive, got %.2f", cfg.LineSpacing)
	}

	e := &Engine{
		items:   items,
		cfg:     cfg,
		speed:   cfg.Speed,
		width:   width,
		height:  height,
		metrics: metrics,
	}
	e.recomputeLineHeight()
	e.vignetteDirty = true
	e.vignetteEnabled = true

	// 解析调色板，非法项回退为白色（装饰性问题不阻止构造）
	e.rowColors = make([]color.RGBA, 0, len(cfg.Colors))
	for _, hex := range cfg.Colors {
		clr, ok := utils.ParseHexColor(hex)
		if !ok {
			log.Printf("[Reel] invalid item color %q, using white", hex)
			clr = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		e.rowColors = append(e.rowColors, clr)
	}
	if len(e.rowColors) == 0 {
		e.rowColors = []color.RGBA{{R: 255, G: 255, B: 255, A: 255}}
	}

	bg, ok := utils.ParseHexColor(cfg.Background)
	if !ok {
		log.Printf("[Reel] invalid background color %q, using black", cfg.Background)
		bg = color.RGBA{A: 255}
	}
	e.bgColor = bg

	return e, nil
}

// SetFace 设置渲染字体
//
// 未设置字体时 Draw 只绘制背景和渐变遮罩（无显示测试场景）。
func (e *Engine) SetFace(face text.Face) {
	e.face = face
}

// SetVignetteEnabled 运行时开关上下渐变遮罩
//
// 只影响绘制，不修改配置；关闭期间已生成的渐变条保留，重新开启时复用。
func (e *Engine) SetVignetteEnabled(enabled bool) {
	e.vignetteEnabled = enabled
}

// VignetteEnabled 返回渐变遮罩是否启用
func (e *Engine) VignetteEnabled() bool {
	return e.vignetteEnabled
}

// OnStop 注册停轮回调
//
// 回调在 spin → pause 转换时恰好触发一次，参数为目标条目索引。
// 传 nil 恢复为无操作。
func (e *Engine) OnStop(fn func(index int)) {
	e.onStop = fn
}

// StartLoop 进入匀速循环滚动模式
//
// 参数:
//   - speed: 新的滚动速度（像素/秒）；<= 0 表示保持当前速度
//
// 从冻结的偏移量处继续滚动，而不是从零开始。
func (e *Engine) StartLoop(speed float64) {
	if speed > 0 {
		e.speed = speed
	}
	e.state.Mode = ModeLoop
	e.state.HighlightProgress = 0
	e.anchorPending = true
}

// StopLoop 停止推进，进入 idle 模式
//
// 偏移量冻结在当前位置；在任意模式下调用都立即生效，重复调用无副作用。
func (e *Engine) StopLoop() {
	e.state.Mode = ModeIdle
}

// Spin 旋转并减速停在指定条目
//
// 参数:
//   - index: 目标条目索引，按真模（true modulo）归一化到 [0, itemCount)，
//     负值和越界值都合法（如 5 个条目时 -1 → 4）
//   - opts: 旋转参数
//
// 运动学：初速度 v0 为当前滚动速度，总距离
// D = rotations·cycleLength + index·lineHeight，
// 匀减速度 a = v0²/(2D)，总时长 T = v0/a。
// offset(t) = v0·t − a·t²/2 在 t = T 时恰好等于 D，无过冲无回弹。
func (e *Engine) Spin(index int, opts SpinOptions) {
	idx := e.normalizeIndex(index)
	rotations := opts.Rotations
	if rotations <= 0 {
		rotations = e.cfg.Rotations
	}
	if rotations <= 0 {
		rotations = DefaultRotations
	}

	// rotations 恒 >= 1 且行高为正，距离恒为正，减速度不会除零
	v0 := e.speed
	distance := float64(rotations)*e.CycleLength() + float64(idx)*e.lineHeight

	e.state.Mode = ModeSpin
	e.state.TargetIndex = idx
	e.state.SpinDistance = distance
	e.state.Deceleration = v0 * v0 / (2 * distance)
	e.state.SpinDuration = v0 / e.state.Deceleration
	e.state.HighlightProgress = 0
	e.anchorPending = true
}

// SpinRandom 旋转停在均匀随机选择的条目
//
// 返回:
//   - int: 选中的条目索引
func (e *Engine) SpinRandom(opts SpinOptions) int {
	idx := rand.Intn(len(e.items))
	e.Spin(idx, opts)
	return idx
}

// SpinTo 旋转停在第一个匹配标签的条目
//
// 参数:
//   - label: 条目文本（精确匹配首个）
//   - opts: 旋转参数
//
// 返回:
//   - bool: 找到并开始旋转返回 true；未找到返回 false 且状态不变
func (e *Engine) SpinTo(label string, opts SpinOptions) bool {
	for i, item := range e.items {
		if item == label {
			e.Spin(i, opts)
			return true
		}
	}
	return false
}

// Tick 推进状态机
//
// 参数:
//   - now: 单调递增的时间戳（秒），由外部调度器提供
//
// 每帧调用一次。内部模式转换（spin→pause→highlight）在转换发生时
// 立即记录起始时间戳；外部调用触发的模式（StartLoop/Spin）没有
// 时间戳可用，在调用后的第一次 Tick 锚定。
func (e *Engine) Tick(now float64) {
	if e.anchorPending {
		e.state.ModeStart = now
		e.lastTick = now
		e.anchorPending = false
	}
	dt := now - e.lastTick
	if dt < 0 {
		dt = 0
	}

	switch e.state.Mode {
	case ModeLoop:
		// 保持回绕存储；只有 offset mod cycleLength 可观测
		e.state.Offset = math.Mod(e.state.Offset+e.speed*dt, e.CycleLength())

	case ModeSpin:
		t := now - e.state.ModeStart
		if t < 0 {
			t = 0
		}
		if t <= e.state.SpinDuration {
			e.state.Offset = e.speed*t - 0.5*e.state.Deceleration*t*t
		} else {
			e.state.Offset = e.state.SpinDistance
			e.state.Mode = ModePause
			e.state.PauseStart = now
			if e.onStop != nil {
				e.onStop(e.state.TargetIndex)
			}
		}

	case ModePause:
		if now-e.state.PauseStart >= e.cfg.HighlightDelayMS/1000 {
			e.state.Mode = ModeHighlight
			e.state.HighlightStart = now
			e.state.HighlightProgress = 0
		}

	case ModeHighlight:
		e.state.HighlightProgress = utils.Clamp01(
			(now - e.state.HighlightStart) / (e.cfg.HighlightAnimDurationMS / 1000))

	case ModeIdle:
		// 偏移量冻结
	}

	e.lastTick = now
}

// Relayout 重新计算布局
//
// 绘制表面尺寸或字体变化时调用。旋转进行中调用会使在途的
// 距离/时长计算失效，返回错误并保持原布局。
//
// 参数:
//   - width, height: 新的表面逻辑尺寸（像素）
//   - metrics: 新的文本度量服务（字体变化时传入）；nil 表示沿用现有度量
//
// 返回:
//   - error: 当前处于 spin 模式时返回错误
func (e *Engine) Relayout(width, height int, metrics TextMetrics) error {
	if e.state.Mode == ModeSpin {
		return fmt.Errorf("cannot relayout while spinning")
	}
	e.width = width
	e.height = height
	if metrics != nil {
		e.metrics = metrics
	}
	e.recomputeLineHeight()
	e.vignetteDirty = true
	return nil
}

// recomputeLineHeight 由字体度量推导行高
func (e *Engine) recomputeLineHeight() {
	ascent, descent := e.metrics.LineExtents()
	e.lineHeight = (ascent + descent) * e.cfg.LineSpacing
}

// normalizeIndex 真模归一化：负值先补偿再取模，结果恒在 [0, itemCount)
func (e *Engine) normalizeIndex(index int) int {
	n := len(e.items)
	return ((index % n) + n) % n
}

// Mode 返回当前动画模式
func (e *Engine) Mode() Mode {
	return e.state.Mode
}

// Offset 返回当前滚动偏移量（像素）
func (e *Engine) Offset() float64 {
	return e.state.Offset
}

// TargetIndex 返回最近一次旋转的目标条目索引
func (e *Engine) TargetIndex() int {
	return e.state.TargetIndex
}

// LineHeight 返回当前行高（像素）
func (e *Engine) LineHeight() float64 {
	return e.lineHeight
}

// CycleLength 返回一轮条目的总像素高度（itemCount × lineHeight）
func (e *Engine) CycleLength() float64 {
	return float64(len(e.items)) * e.lineHeight
}

// HighlightProgress 返回高亮动画归一化进度 ∈ [0, 1]
func (e *Engine) HighlightProgress() float64 {
	return e.state.HighlightProgress
}

// ItemCount 返回条目数量
func (e *Engine) ItemCount() int {
	return len(e.items)
}

// SpinState 返回运动状态快照（调试 HUD 与测试用）
func (e *Engine) SpinState() State {
	return e.state
}
