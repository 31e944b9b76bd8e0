// Package ocr 提供可选的 logo 文字识别。
// 能力由 Detect 在启动时确定一次；未带 tesseract 标签编译或无法初始化时标记为不可用，不会报错退出。
package ocr

import (
	"image"
	"strings"

	lttypes "logotrace/type"
)

// Capability 记录文字识别是否可用，以及不可用的原因
type Capability struct {
	Available bool
	Reason    string
}

// Recognizer 把图像识别为文本
type Recognizer interface {
	Recognize(img image.Image) (string, error)
	Close() error
}

// Run 在能力可用时识别文字，识别失败写入结果而不是返回错误
func Run(rec Recognizer, capability Capability, img image.Image) lttypes.TextRecognition {
	if !capability.Available || rec == nil {
		return lttypes.TextRecognition{Available: false, Reason: capability.Reason}
	}
	text, err := rec.Recognize(img)
	if err != nil {
		return lttypes.TextRecognition{Available: true, Reason: "recognition failed: " + err.Error()}
	}
	return lttypes.TextRecognition{Available: true, Text: cleanText(text)}
}

func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
