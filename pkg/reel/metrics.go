package reel

import (
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// TextMetrics 文本度量服务
//
// 引擎只需要行高计算所用的上伸/下沉两个值，
// 通过该接口注入后，运动模型的测试不依赖真实字体和显示设备。
type TextMetrics interface {
	// LineExtents 返回字体的上伸（ascent）和下沉（descent），单位像素
	LineExtents() (ascent, descent float64)
}

// FaceMetrics 包装 Ebitengine text/v2 字体的度量适配器
type FaceMetrics struct {
	Face text.Face
}

// LineExtents 返回字体水平排版的 ascent/descent
func (m FaceMetrics) LineExtents() (ascent, descent float64) {
	metrics := m.Face.Metrics()
	return float64(metrics.HAscent), float64(metrics.HDescent)
}

// FixedMetrics 固定值度量（测试与无显示环境用）
type FixedMetrics struct {
	Ascent  float64
	Descent float64
}

// LineExtents 返回固定的 ascent/descent
func (m FixedMetrics) LineExtents() (ascent, descent float64) {
	return m.Ascent, m.Descent
}
