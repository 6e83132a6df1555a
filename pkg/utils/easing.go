package utils

import "math"

// 缓动函数 (Easing Functions)
//
// 控制动画的速度曲线。所有函数接受进度 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 转轮的高亮缩放使用 EaseOutCubic（开始快、结束慢，适合"定格放大"效果）。
//
// 参考：https://easings.net/

// EaseLinear 线性缓动（匀速）
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic 三次方缓出
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInOutCubic 三次方缓入缓出
// 公式：
//
//	t < 0.5: f(t) = 4t³
//	t >= 0.5: f(t) = 1 - (-2t + 2)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Lerp 在 a 和 b 之间根据 t 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 将 v 限制在 [0, 1] 区间内
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
