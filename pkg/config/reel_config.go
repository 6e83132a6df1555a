package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReelConfig 转轮样式与运动配置
//
// 包含滚动速度、高亮缩放、渐变遮罩等全部可调参数，以及演示用的条目列表。
// 未在 YAML 中指定的字段保持默认值，不会报错。
//
// 配置文件位置: data/reel.yaml
type ReelConfig struct {
	// Items 转轮条目列表（按显示顺序）
	// 引擎生命周期内不可变，替换条目需要重建引擎
	Items []string `yaml:"items"`

	// FontSize 字号（像素）
	FontSize float64 `yaml:"fontSize"`

	// FontWeight 字重："regular" 或 "bold"
	FontWeight string `yaml:"fontWeight"`

	// Colors 条目颜色循环表（十六进制字符串，如 "#ffd700"）
	// 按条目逻辑索引循环取色：colors[index % len(colors)]
	Colors []string `yaml:"colors"`

	// Background 背景颜色（十六进制字符串）
	Background string `yaml:"bg"`

	// Speed 匀速滚动速度（像素/秒），也是减速旋转的初速度
	// 必须为正值，否则减速度计算会除零
	Speed float64 `yaml:"speed"`

	// FadeOutAlpha 高亮阶段非选中行的不透明度 [0, 1]
	FadeOutAlpha float64 `yaml:"fadeOutAlpha"`

	// ZoomScale 高亮阶段选中行的目标缩放倍数（>= 1）
	ZoomScale float64 `yaml:"zoomScale"`

	// LineSpacing 行距倍数：lineHeight = (ascent + descent) * lineSpacing
	LineSpacing float64 `yaml:"lineSpacing"`

	// HighlightDelayMS 停轮后到高亮动画开始的停顿时间（毫秒）
	HighlightDelayMS float64 `yaml:"highlightDelay"`

	// HighlightAnimDurationMS 高亮缩放动画时长（毫秒）
	HighlightAnimDurationMS float64 `yaml:"highlightAnimDuration"`

	// FadeGradientColor 上下渐变遮罩颜色（十六进制字符串）
	FadeGradientColor string `yaml:"fadeGradientColor"`

	// FadeGradientAlpha 渐变遮罩外缘不透明度 [0, 1]，为 0 时完全跳过遮罩
	FadeGradientAlpha float64 `yaml:"fadeGradientAlpha"`

	// FadeGradientPower 渐变衰减指数（> 0，越大边缘越"硬"）
	FadeGradientPower float64 `yaml:"fadeGradientPower"`

	// Rotations 旋转停轮前经过的完整圈数（默认 6）
	Rotations int `yaml:"rotations"`
}

// DefaultReelConfig 返回默认配置
//
// 所有字段都有可用的默认值，空配置文件也能直接运行。
func DefaultReelConfig() *ReelConfig {
	return &ReelConfig{
		Items:                   nil,
		FontSize:                36,
		FontWeight:              "regular",
		Colors:                  []string{"#ffd700", "#87ceeb", "#ff8c69", "#98fb98"},
		Background:              "#1a1a2e",
		Speed:                   600,
		FadeOutAlpha:            0.25,
		ZoomScale:               1.6,
		LineSpacing:             1.5,
		HighlightDelayMS:        350,
		HighlightAnimDurationMS: 600,
		FadeGradientColor:       "#1a1a2e",
		FadeGradientAlpha:       0.85,
		FadeGradientPower:       1.5,
		Rotations:               6,
	}
}

// LoadReelConfig 加载转轮配置
//
// 从指定路径加载 YAML 格式的配置文件。解析以默认配置为基础，
// 文件中未出现的键保持默认值。
//
// 参数:
//   - path: 配置文件路径（如 "data/reel.yaml"）
//
// 返回:
//   - *ReelConfig: 加载成功后的配置结构
//   - error: 读取、解析或校验失败时返回错误
func LoadReelConfig(path string) (*ReelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reel config: %w", err)
	}

	config := DefaultReelConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse reel config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reel config: %w", err)
	}

	return config, nil
}

// Validate 验证配置有效性
//
// 空条目列表和非正速度会导致运动模型产生 NaN/Inf 偏移量，
// 必须在构造阶段拒绝，而不是在动画中静默失败。
//
// 返回:
//   - error: 验证失败时返回错误，成功返回 nil
func (c *ReelConfig) Validate() error {
	if len(c.Items) == 0 {
		return fmt.Errorf("reel requires at least one item")
	}
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %.2f", c.Speed)
	}
	if c.LineSpacing <= 0 {
		return fmt.Errorf("lineSpacing must be positive, got %.2f", c.LineSpacing)
	}
	if c.ZoomScale < 1 {
		return fmt.Errorf("zoomScale must be >= 1, got %.2f", c.ZoomScale)
	}
	if c.FadeOutAlpha < 0 || c.FadeOutAlpha > 1 {
		return fmt.Errorf("fadeOutAlpha must be in [0, 1], got %.2f", c.FadeOutAlpha)
	}
	if c.FadeGradientAlpha < 0 || c.FadeGradientAlpha > 1 {
		return fmt.Errorf("fadeGradientAlpha must be in [0, 1], got %.2f", c.FadeGradientAlpha)
	}
	if c.FadeGradientPower <= 0 {
		return fmt.Errorf("fadeGradientPower must be positive, got %.2f", c.FadeGradientPower)
	}
	if c.HighlightDelayMS < 0 {
		return fmt.Errorf("highlightDelay must be non-negative, got %.2f", c.HighlightDelayMS)
	}
	if c.HighlightAnimDurationMS <= 0 {
		return fmt.Errorf("highlightAnimDuration must be positive, got %.2f", c.HighlightAnimDurationMS)
	}
	if c.Rotations < 0 {
		return fmt.Errorf("rotations must be non-negative, got %d", c.Rotations)
	}
	switch c.FontWeight {
	case "regular", "bold":
	default:
		return fmt.Errorf("fontWeight must be \"regular\" or \"bold\", got %q", c.FontWeight)
	}
	return nil
}
