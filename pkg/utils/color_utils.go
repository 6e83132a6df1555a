package utils

import (
	"image/color"
	"strings"
)

// ParseHexColor 解析 CSS 风格的十六进制颜色字符串
//
// 支持的格式：
//   - "#rgb"       短格式（每位扩展为两位，如 "#f0a" → "#ff00aa"）
//   - "#rrggbb"    标准格式（alpha 为 255）
//   - "#rrggbbaa"  带 alpha 格式
//
// 返回：
//   - color.RGBA: 解析结果
//   - bool: 是否解析成功
//
// 解析失败时返回零值和 false。渐变遮罩等装饰性绘制的调用方
// 应在失败时跳过该层，而不是中断渲染。
func ParseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, false
	}
	hex := s[1:]

	// 短格式扩展："f0a" → "ff00aa"
	if len(hex) == 3 {
		var b strings.Builder
		for _, c := range hex {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		hex = b.String()
	}

	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, false
	}

	var vals [4]uint8
	vals[3] = 255 // 默认不透明
	for i := 0; i*2 < len(hex); i++ {
		hi, ok1 := hexDigit(hex[i*2])
		lo, ok2 := hexDigit(hex[i*2+1])
		if !ok1 || !ok2 {
			return color.RGBA{}, false
		}
		vals[i] = hi<<4 | lo
	}

	return color.RGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, true
}

// hexDigit 将单个十六进制字符转换为数值
func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
