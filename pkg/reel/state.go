package reel

// Mode 转轮动画模式
//
// 状态机转换关系：
//
//	idle ──StartLoop──► loop ──Spin──► spin ──停轮──► pause ──延时──► highlight
//	  ▲                                                                  │
//	  └────────────────────── StopLoop / 重新 StartLoop / Spin ◄─────────┘
//
// idle 和 highlight 是静止状态，只有外部调用才能离开。
type Mode int

const (
	// ModeIdle 静止：偏移量冻结，不推进
	ModeIdle Mode = iota

	// ModeLoop 匀速循环滚动
	ModeLoop

	// ModeSpin 减速旋转（匀减速直至停在目标条目）
	ModeSpin

	// ModePause 停轮后的停顿（高亮前的视觉缓冲）
	ModePause

	// ModeHighlight 高亮：选中条目缩放强调，其余条目淡出
	ModeHighlight
)

// String 返回模式名称（用于日志和调试 HUD）
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeLoop:
		return "loop"
	case ModeSpin:
		return "spin"
	case ModePause:
		return "pause"
	case ModeHighlight:
		return "highlight"
	}
	return "unknown"
}

// State 转轮运动状态
//
// 每个引擎实例独占一份，只在 Tick 内部修改。
// 所有时间戳使用驱动方提供的单调递增时钟（秒）。
type State struct {
	// Mode 当前动画模式
	Mode Mode

	// Offset 滚动偏移量（像素，>= 0）
	// loop 模式下保持在 [0, cycleLength) 内回绕；
	// spin 模式下从 0 增长到 SpinDistance
	Offset float64

	// TargetIndex 旋转目标条目索引 ∈ [0, itemCount)
	TargetIndex int

	// ModeStart 当前模式的起始时间戳（秒）
	ModeStart float64

	// SpinDistance 本次旋转的总距离 D（像素）
	SpinDistance float64

	// SpinDuration 本次旋转的总时长 T = v0/a（秒）
	SpinDuration float64

	// Deceleration 匀减速度 a = v0²/(2D)（像素/秒²）
	Deceleration float64

	// PauseStart 进入 pause 模式的时间戳（秒）
	PauseStart float64

	// HighlightStart 进入 highlight 模式的时间戳（秒）
	HighlightStart float64

	// HighlightProgress 高亮动画归一化进度 ∈ [0, 1]（每次 Tick 更新）
	HighlightProgress float64
}
