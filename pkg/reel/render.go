package reel

import (
	"image"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/decker502/slotreel/pkg/utils"
)

// Draw 合成当前帧
//
// 合成顺序：背景 → 条目行（含高亮缩放/淡出）→ 上下渐变遮罩。
// 遮罩叠加在条目之上才能产生边缘淡出效果。
//
// 每帧渲染 3 × itemCount 个候选行（中心上下各一轮回绕），
// 超出表面上下各一个行高的行被剔除，回绕边界处视觉无缝。
func (e *Engine) Draw(screen *ebiten.Image) {
	screen.Fill(e.bgColor)

	if e.face != nil {
		e.drawRows(screen)
	}
	e.drawVignette(screen)
}

// drawRows 绘制所有可见条目行
func (e *Engine) drawRows(screen *ebiten.Image) {
	n := len(e.items)
	cycle := e.CycleLength()
	wrapped := math.Mod(e.state.Offset, cycle)
	centerX := float64(e.width) / 2
	ascent, descent := e.metrics.LineExtents()
	textHeight := ascent + descent

	for i := 0; i < 3*n; i++ {
		y := e.rowY(i, wrapped)
		if e.rowCulled(y) {
			continue
		}

		idx := i % n
		scale, alpha := e.rowStyle(idx, y)

		label := e.items[idx]
		width, _ := text.Measure(label, e.face, 0)

		// 以文本自身中心为缩放原点，再平移到行中心
		op := &text.DrawOptions{}
		op.GeoM.Translate(-width/2, -textHeight/2)
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(centerX, y)
		op.ColorScale.ScaleWithColor(e.rowColors[idx%len(e.rowColors)])
		op.ColorScale.ScaleAlpha(float32(alpha))
		text.Draw(screen, label, e.face, op)
	}
}

// rowStyle 计算行的缩放倍数与不透明度
//
// 高亮模式下目标行按进度放大，其余可见行淡出到 fadeOutAlpha；
// 其它模式所有行均为原始大小、完全不透明。
func (e *Engine) rowStyle(idx int, y float64) (scale, alpha float64) {
	scale, alpha = 1, 1
	if e.state.Mode != ModeHighlight {
		return scale, alpha
	}
	if e.isHighlightTarget(idx, y) {
		scale = e.highlightZoom()
	} else {
		alpha = e.cfg.FadeOutAlpha
	}
	return scale, alpha
}

// highlightZoom 按当前进度计算高亮缩放倍数
//
// 进度走 ease-out-cubic 曲线：p=0 时为 1（原始大小），p=1 时恰好为 zoomScale。
func (e *Engine) highlightZoom() float64 {
	return 1 + (e.cfg.ZoomScale-1)*utils.EaseOutCubic(e.state.HighlightProgress)
}

// rowY 第 i 个候选行的行中心垂直位置
//
// 候选行覆盖中心上下各一轮回绕，目标条目在 offset = D 时恰好落在表面中心。
func (e *Engine) rowY(i int, wrapped float64) float64 {
	n := float64(len(e.items))
	centerY := float64(e.height) / 2
	return centerY - wrapped + float64(i)*e.lineHeight - n*e.lineHeight
}

// rowCulled 判断行是否在表面外（留一个行高的余量）
func (e *Engine) rowCulled(y float64) bool {
	return y < -e.lineHeight || y > float64(e.height)+e.lineHeight
}

// isHighlightTarget 判断行是否为高亮放大的目标
//
// 居中判定与目标索引必须同时满足，避免回绕边界处的同名条目被错误放大。
func (e *Engine) isHighlightTarget(idx int, y float64) bool {
	centerY := float64(e.height) / 2
	return math.Abs(y-centerY) <= e.lineHeight/2 && idx == e.state.TargetIndex
}

// drawVignette 绘制上下渐变遮罩
//
// 遮罩从表面上下边缘的 fadeGradientAlpha 淡出到垂直中心的全透明。
// 遮罩被运行时关闭、fadeGradientAlpha 为 0 或颜色解析失败时整层跳过
// （装饰性，非致命）。
func (e *Engine) drawVignette(screen *ebiten.Image) {
	if !e.vignetteEnabled || e.cfg.FadeGradientAlpha == 0 {
		return
	}
	if e.vignetteDirty {
		e.rebuildVignette()
	}
	if e.vignette == nil {
		return
	}

	// 上半：1 像素宽的渐变条横向拉伸到表面宽度
	top := &ebiten.DrawImageOptions{}
	top.GeoM.Scale(float64(e.width), 1)
	screen.DrawImage(e.vignette, top)

	// 下半：垂直翻转后贴到底部
	bottom := &ebiten.DrawImageOptions{}
	bottom.GeoM.Scale(float64(e.width), -1)
	bottom.GeoM.Translate(0, float64(e.height))
	screen.DrawImage(e.vignette, bottom)
}

// rebuildVignette 重新生成渐变条（布局变化后惰性执行）
//
// 生成一张 1 × (height/2) 的预乘 alpha 图像，第 y 行的不透明度为
// fadeGradientAlpha × ((half−y)/half)^fadeGradientPower。
func (e *Engine) rebuildVignette() {
	e.vignetteDirty = false
	e.vignette = nil

	clr, ok := utils.ParseHexColor(e.cfg.FadeGradientColor)
	if !ok {
		if !e.vignetteFailed {
			log.Printf("[Reel] invalid fadeGradientColor %q, vignette disabled", e.cfg.FadeGradientColor)
			e.vignetteFailed = true
		}
		return
	}

	half := e.height / 2
	if half <= 0 || e.width <= 0 {
		return
	}

	img := image.NewRGBA(image.Rect(0, 0, 1, half))
	for y := 0; y < half; y++ {
		edge := 1 - float64(y)/float64(half) // 边缘为 1，中心为 0
		alpha := e.cfg.FadeGradientAlpha * math.Pow(edge, e.cfg.FadeGradientPower)
		af := alpha * float64(clr.A) / 255

		// 预乘 alpha
		img.SetRGBA(0, y, color.RGBA{
			R: uint8(float64(clr.R)*af + 0.5),
			G: uint8(float64(clr.G)*af + 0.5),
			B: uint8(float64(clr.B)*af + 0.5),
			A: uint8(255*af + 0.5),
		})
	}

	e.vignette = ebiten.NewImageFromImage(img)
}
