package reel

import (
	"math"
	"testing"

	"github.com/decker502/slotreel/pkg/config"
)

const floatEps = 1e-6

// newTestEngine 创建无显示测试引擎
//
// FixedMetrics{100, 0} 配合默认行距 1.5 得到行高 150，便于手算对照。
func newTestEngine(t *testing.T, items []string, speed float64) *Engine {
	t.Helper()

	cfg := config.DefaultReelConfig()
	cfg.Items = items
	cfg.Speed = speed

	e, err := New(items, cfg, FixedMetrics{Ascent: 100, Descent: 0}, 480, 600)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

// TestNewValidation 测试构造阶段的快速失败
func TestNewValidation(t *testing.T) {
	cfg := config.DefaultReelConfig()
	cfg.Items = []string{"A"}
	metrics := FixedMetrics{Ascent: 100, Descent: 0}

	t.Run("空条目列表", func(t *testing.T) {
		if _, err := New(nil, cfg, metrics, 480, 600); err == nil {
			t.Error("expected error for empty item list")
		}
	})

	t.Run("零速度", func(t *testing.T) {
		bad := config.DefaultReelConfig()
		bad.Speed = 0
		if _, err := New([]string{"A"}, bad, metrics, 480, 600); err == nil {
			t.Error("expected error for zero speed")
		}
	})

	t.Run("负行距", func(t *testing.T) {
		bad := config.DefaultReelConfig()
		bad.LineSpacing = -1
		if _, err := New([]string{"A"}, bad, metrics, 480, 600); err == nil {
			t.Error("expected error for negative lineSpacing")
		}
	})
}

// TestSpinKinematics 测试减速旋转的运动学（手算对照）
//
// 5 个条目，速度 1500，行高 150，Spin(2, 6圈)：
// cycle = 750, D = 6×750 + 2×150 = 4800,
// a = 1500²/(2×4800) = 234.375, T = 1500/234.375 = 6.4s
func TestSpinKinematics(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C", "D", "E"}, 1500)

	if lh := e.LineHeight(); math.Abs(lh-150) > floatEps {
		t.Fatalf("LineHeight = %v, want 150", lh)
	}
	if cycle := e.CycleLength(); math.Abs(cycle-750) > floatEps {
		t.Fatalf("CycleLength = %v, want 750", cycle)
	}

	e.Spin(2, SpinOptions{Rotations: 6})
	st := e.SpinState()

	if math.Abs(st.SpinDistance-4800) > floatEps {
		t.Errorf("SpinDistance = %v, want 4800", st.SpinDistance)
	}
	if math.Abs(st.Deceleration-234.375) > floatEps {
		t.Errorf("Deceleration = %v, want 234.375", st.Deceleration)
	}
	if math.Abs(st.SpinDuration-6.4) > floatEps {
		t.Errorf("SpinDuration = %v, want 6.4", st.SpinDuration)
	}

	// 停止距离对应目标条目居中位置
	rem := math.Mod(st.SpinDistance, e.CycleLength())
	if math.Abs(rem-2*e.LineHeight()) > floatEps {
		t.Errorf("SpinDistance mod cycle = %v, want %v", rem, 2*e.LineHeight())
	}

	// t = T 时 offset 精确到达 D
	e.Tick(0)
	e.Tick(6.4)
	if off := e.Offset(); math.Abs(off-4800) > floatEps {
		t.Errorf("offset at t=T is %v, want 4800", off)
	}
	if e.Mode() != ModeSpin {
		t.Errorf("mode at t=T is %v, want spin", e.Mode())
	}

	// t > T 钳制并转入 pause
	e.Tick(6.5)
	if off := e.Offset(); math.Abs(off-4800) > floatEps {
		t.Errorf("offset after T is %v, want 4800", off)
	}
	if e.Mode() != ModePause {
		t.Errorf("mode after T is %v, want pause", e.Mode())
	}
}

// TestSpinMonotonic 测试旋转偏移量单调不减（无过冲无回弹）
func TestSpinMonotonic(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C", "D", "E"}, 1500)
	e.Spin(3, SpinOptions{Rotations: 4})
	e.Tick(0)

	duration := e.SpinState().SpinDuration
	prev := -1.0
	for now := 0.0; now <= duration; now += 0.05 {
		e.Tick(now)
		if e.Offset() < prev-floatEps {
			t.Fatalf("offset decreased at t=%.2f: %v -> %v", now, prev, e.Offset())
		}
		prev = e.Offset()
	}
}

// TestLoopWrap 测试 loop 模式偏移量回绕在 [0, cycleLength) 内
func TestLoopWrap(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C"}, 1200)
	cycle := e.CycleLength() // 450

	e.StartLoop(0)
	for i := 0; i <= 100; i++ {
		e.Tick(float64(i) * 0.1)
		off := e.Offset()
		if off < 0 || off >= cycle {
			t.Fatalf("loop offset %v out of [0, %v) at tick %d", off, cycle, i)
		}
	}
}

// TestStopResume 测试 StopLoop 冻结偏移量，StartLoop 从冻结处继续
func TestStopResume(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C", "D"}, 100)

	e.StartLoop(0)
	e.Tick(0)
	e.Tick(1.0) // offset = 100
	frozen := e.Offset()
	if math.Abs(frozen-100) > floatEps {
		t.Fatalf("offset before stop = %v, want 100", frozen)
	}

	e.StopLoop()
	if e.Mode() != ModeIdle {
		t.Fatalf("mode after StopLoop = %v, want idle", e.Mode())
	}

	// idle 期间偏移量不推进
	e.Tick(2.0)
	e.Tick(5.0)
	if e.Offset() != frozen {
		t.Errorf("offset advanced while idle: %v", e.Offset())
	}

	// 恢复后从冻结位置继续，而不是从零开始；
	// 停顿的 4 秒不计入推进
	e.StartLoop(0)
	e.Tick(5.0)
	if e.Offset() != frozen {
		t.Errorf("offset jumped on resume anchor tick: %v, want %v", e.Offset(), frozen)
	}
	e.Tick(5.5)
	want := frozen + 50
	if math.Abs(e.Offset()-want) > floatEps {
		t.Errorf("offset after resume = %v, want %v", e.Offset(), want)
	}
}

// TestStartLoopSpeedOverride 测试 StartLoop 的速度覆盖语义
func TestStartLoopSpeedOverride(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C"}, 100)

	// 正值覆盖速度
	e.StartLoop(200)
	e.Tick(0)
	e.Tick(1.0)
	if math.Abs(e.Offset()-200) > floatEps {
		t.Errorf("offset with overridden speed = %v, want 200", e.Offset())
	}

	// 零保持当前速度
	e.StopLoop()
	e.StartLoop(0)
	e.Tick(1.0)
	e.Tick(1.5)
	if math.Abs(e.Offset()-300) > floatEps {
		t.Errorf("offset after keep-speed restart = %v, want 300", e.Offset())
	}
}

// TestSpinIndexNormalization 测试目标索引的真模归一化
func TestSpinIndexNormalization(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  int
	}{
		{"范围内", 2, 2},
		{"负一", -1, 4},
		{"负六", -6, 4},
		{"越界", 7, 2},
		{"整圈越界", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, []string{"A", "B", "C", "D", "E"}, 1500)
			e.Spin(tt.index, SpinOptions{})
			if got := e.TargetIndex(); got != tt.want {
				t.Errorf("Spin(%d) target = %d, want %d", tt.index, got, tt.want)
			}
		})
	}
}

// TestSpinTo 测试按标签旋转
func TestSpinTo(t *testing.T) {
	items := []string{"Cherry", "Lemon", "Seven"}

	t.Run("标签存在", func(t *testing.T) {
		byLabel := newTestEngine(t, items, 1500)
		byIndex := newTestEngine(t, items, 1500)

		if !byLabel.SpinTo("Lemon", SpinOptions{Rotations: 3}) {
			t.Fatal("SpinTo returned false for existing label")
		}
		byIndex.Spin(1, SpinOptions{Rotations: 3})

		// 与 Spin(indexOf(label)) 产生完全相同的运动状态
		if byLabel.SpinState() != byIndex.SpinState() {
			t.Errorf("SpinTo state %+v != Spin state %+v",
				byLabel.SpinState(), byIndex.SpinState())
		}
	})

	t.Run("标签不存在", func(t *testing.T) {
		e := newTestEngine(t, items, 1500)
		e.StartLoop(0)
		e.Tick(0)
		e.Tick(0.5)
		before := e.SpinState()

		if e.SpinTo("Grape", SpinOptions{}) {
			t.Fatal("SpinTo returned true for missing label")
		}
		if e.SpinState() != before {
			t.Errorf("state changed on not-found: %+v -> %+v", before, e.SpinState())
		}
	})
}

// TestOnStopFiredOnce 测试停轮回调只在 spin→pause 转换时触发一次
func TestOnStopFiredOnce(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C", "D", "E"}, 1500)

	var calls []int
	e.OnStop(func(index int) {
		calls = append(calls, index)
	})

	e.Spin(3, SpinOptions{Rotations: 2})
	e.Tick(0)

	duration := e.SpinState().SpinDuration
	for now := 0.0; now < duration+1.0; now += 0.05 {
		e.Tick(now)
	}

	if len(calls) != 1 {
		t.Fatalf("OnStop fired %d times, want 1", len(calls))
	}
	if calls[0] != 3 {
		t.Errorf("OnStop index = %d, want 3", calls[0])
	}
}

// TestPauseToHighlight 测试 pause 延时后进入 highlight 及进度推进
func TestPauseToHighlight(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C"}, 1500)
	// 默认 highlightDelay 350ms, highlightAnimDuration 600ms

	e.Spin(1, SpinOptions{Rotations: 1})
	e.Tick(0)

	duration := e.SpinState().SpinDuration
	e.Tick(duration + 0.01) // 转入 pause
	if e.Mode() != ModePause {
		t.Fatalf("mode = %v, want pause", e.Mode())
	}
	pauseStart := e.SpinState().PauseStart

	// 延时未到仍在 pause
	e.Tick(pauseStart + 0.3)
	if e.Mode() != ModePause {
		t.Fatalf("mode at +300ms = %v, want pause", e.Mode())
	}

	// 延时已到进入 highlight
	e.Tick(pauseStart + 0.36)
	if e.Mode() != ModeHighlight {
		t.Fatalf("mode at +360ms = %v, want highlight", e.Mode())
	}
	highlightStart := e.SpinState().HighlightStart

	// 进度按动画时长归一化，结束后钳制在 1
	e.Tick(highlightStart + 0.3)
	if p := e.HighlightProgress(); math.Abs(p-0.5) > floatEps {
		t.Errorf("progress at half duration = %v, want 0.5", p)
	}
	e.Tick(highlightStart + 0.6)
	if p := e.HighlightProgress(); math.Abs(p-1) > floatEps {
		t.Errorf("progress at full duration = %v, want 1", p)
	}
	e.Tick(highlightStart + 5)
	if p := e.HighlightProgress(); p != 1 {
		t.Errorf("progress stays clamped: %v, want 1", p)
	}

	// highlight 是静止终态，不会自动退出
	if e.Mode() != ModeHighlight {
		t.Errorf("mode left highlight without external call: %v", e.Mode())
	}

	// 偏移量保持在停止距离
	if off := e.Offset(); math.Abs(off-e.SpinState().SpinDistance) > floatEps {
		t.Errorf("offset in highlight = %v, want %v", off, e.SpinState().SpinDistance)
	}
}

// TestSpinRestartsFromHighlight 测试 highlight 终态可被再次旋转/循环打断
func TestSpinRestartsFromHighlight(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C"}, 1500)

	e.Spin(1, SpinOptions{Rotations: 1})
	e.Tick(0)
	e.Tick(e.SpinState().SpinDuration + 10) // pause
	e.Tick(e.SpinState().PauseStart + 10)   // highlight
	if e.Mode() != ModeHighlight {
		t.Fatalf("setup failed, mode = %v", e.Mode())
	}

	e.StartLoop(0)
	if e.Mode() != ModeLoop {
		t.Errorf("mode after StartLoop = %v, want loop", e.Mode())
	}
	if p := e.HighlightProgress(); p != 0 {
		t.Errorf("highlight progress not reset: %v", p)
	}
}

// TestSpinRotationsDefault 测试 rotations 的默认值链
//
// 选项为 0 时依次回退到配置值、内置默认值 6。
func TestSpinRotationsDefault(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B"}, 1000)
	cycle := e.CycleLength()

	e.cfg.Rotations = 0
	e.Spin(0, SpinOptions{})
	if st := e.SpinState(); math.Abs(st.SpinDistance-float64(DefaultRotations)*cycle) > floatEps {
		t.Errorf("distance = %v, want %v (built-in %d rotations)",
			st.SpinDistance, float64(DefaultRotations)*cycle, DefaultRotations)
	}

	e.cfg.Rotations = 3
	e.Spin(0, SpinOptions{})
	if st := e.SpinState(); math.Abs(st.SpinDistance-3*cycle) > floatEps {
		t.Errorf("distance = %v, want %v (config rotations)", st.SpinDistance, 3*cycle)
	}

	e.Spin(0, SpinOptions{Rotations: 2})
	if st := e.SpinState(); math.Abs(st.SpinDistance-2*cycle) > floatEps {
		t.Errorf("distance = %v, want %v (explicit rotations)", st.SpinDistance, 2*cycle)
	}
}

// TestRelayout 测试布局重算及旋转中的拒绝
func TestRelayout(t *testing.T) {
	e := newTestEngine(t, []string{"A", "B", "C"}, 1500)

	t.Run("旋转中拒绝", func(t *testing.T) {
		e.Spin(0, SpinOptions{})
		if err := e.Relayout(800, 800, nil); err == nil {
			t.Error("expected error while spinning")
		}
	})

	t.Run("静止时重算", func(t *testing.T) {
		e.StopLoop()
		if err := e.Relayout(800, 900, nil); err != nil {
			t.Fatalf("Relayout failed: %v", err)
		}
		// 度量传 nil 时沿用构造时的 FixedMetrics(100, 0) × 行距 1.5
		if lh := e.LineHeight(); math.Abs(lh-150) > floatEps {
			t.Errorf("lineHeight after relayout = %v, want 150", lh)
		}
	})

	t.Run("更换度量重算行高", func(t *testing.T) {
		if err := e.Relayout(800, 900, FixedMetrics{Ascent: 60, Descent: 20}); err != nil {
			t.Fatalf("Relayout failed: %v", err)
		}
		// (60 + 20) × 行距 1.5
		if lh := e.LineHeight(); math.Abs(lh-120) > floatEps {
			t.Errorf("lineHeight after metrics change = %v, want 120", lh)
		}
	})
}
