// verify_spin.go - 转轮运动模型验证程序
// 用合成时间戳离线驱动状态机，核对减速旋转的运动学和模式转换。
// 无需显示设备，适合在 CI 中直接运行。
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/decker502/slotreel/pkg/config"
	"github.com/decker502/slotreel/pkg/reel"
)

// ========== 验证报告结构 ==========

type ValidationReport struct {
	TestName string
	Passed   bool
	Message  string
}

var validationReports []ValidationReport

func addReport(testName string, passed bool, message string) {
	validationReports = append(validationReports, ValidationReport{
		TestName: testName,
		Passed:   passed,
		Message:  message,
	})
	status := "✗ FAIL"
	if passed {
		status = "✓ PASS"
	}
	log.Printf("%s | %-28s | %s", status, testName, message)
}

func main() {
	speed := flag.Float64("speed", 1500, "spin start velocity in px/s")
	target := flag.Int("target", 2, "target item index")
	rotations := flag.Int("rotations", 6, "full cycles before stopping")
	step := flag.Float64("step", 1.0/60, "synthetic frame interval in seconds")
	flag.Parse()

	log.SetFlags(0)

	items := []string{"Cherry", "Lemon", "Orange", "Plum", "Bell"}
	cfg := config.DefaultReelConfig()
	cfg.Items = items
	cfg.Speed = *speed

	// FixedMetrics(100, 0) × 行距 1.5 = 行高 150
	engine, err := reel.New(items, cfg, reel.FixedMetrics{Ascent: 100, Descent: 0}, 480, 600)
	if err != nil {
		log.Fatalf("engine init failed: %v", err)
	}

	stopIndex := -1
	engine.OnStop(func(index int) { stopIndex = index })

	engine.Spin(*target, reel.SpinOptions{Rotations: *rotations})
	st := engine.SpinState()

	cycle := engine.CycleLength()
	wantDistance := float64(*rotations)*cycle + float64(engine.TargetIndex())*engine.LineHeight()

	addReport("spin distance", math.Abs(st.SpinDistance-wantDistance) < 1e-9,
		fmt.Sprintf("D=%.3f want %.3f", st.SpinDistance, wantDistance))

	wantDecel := *speed * *speed / (2 * wantDistance)
	addReport("deceleration", math.Abs(st.Deceleration-wantDecel) < 1e-9,
		fmt.Sprintf("a=%.6f want %.6f", st.Deceleration, wantDecel))

	wantDuration := *speed / wantDecel
	addReport("spin duration", math.Abs(st.SpinDuration-wantDuration) < 1e-9,
		fmt.Sprintf("T=%.4fs want %.4fs", st.SpinDuration, wantDuration))

	// 逐帧推进：偏移量必须单调不减，停轮后精确停在 D
	engine.Tick(0)
	prev := engine.Offset()
	monotonic := true
	now := 0.0
	for engine.Mode() == reel.ModeSpin {
		now += *step
		engine.Tick(now)
		if engine.Offset() < prev {
			monotonic = false
		}
		prev = engine.Offset()
	}
	addReport("monotonic offset", monotonic, fmt.Sprintf("sampled every %.4fs", *step))
	addReport("stop position", math.Abs(engine.Offset()-st.SpinDistance) < 1e-9,
		fmt.Sprintf("offset=%.3f", engine.Offset()))
	addReport("stop hook", stopIndex == engine.TargetIndex(),
		fmt.Sprintf("OnStop(%d) target %d", stopIndex, engine.TargetIndex()))

	// 停顿与高亮转换
	pauseStart := engine.SpinState().PauseStart
	engine.Tick(pauseStart + cfg.HighlightDelayMS/1000 + *step)
	addReport("pause to highlight", engine.Mode() == reel.ModeHighlight,
		fmt.Sprintf("mode=%s", engine.Mode()))

	engine.Tick(engine.SpinState().HighlightStart + cfg.HighlightAnimDurationMS/1000)
	addReport("highlight progress", math.Abs(engine.HighlightProgress()-1) < 1e-9,
		fmt.Sprintf("p=%.3f", engine.HighlightProgress()))

	// 汇总
	failed := 0
	for _, r := range validationReports {
		if !r.Passed {
			failed++
		}
	}
	log.Printf("----")
	log.Printf("%d/%d checks passed", len(validationReports)-failed, len(validationReports))
	if failed > 0 {
		os.Exit(1)
	}
}
