//go:build tesseract

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine 基于 Tesseract 的识别引擎
type Engine struct {
	client *gosseract.Client
}

// Detect 初始化一次 Tesseract，失败时返回不可用及原因
func Detect(language string) (Recognizer, Capability) {
	engine, err := NewEngine(language)
	if err != nil {
		return nil, Capability{Available: false, Reason: err.Error()}
	}
	return engine, Capability{Available: true}
}

// NewEngine 创建识别引擎，默认语言 eng
func NewEngine(language string) (*Engine, error) {
	if language == "" {
		language = "eng"
	}
	client := gosseract.NewClient()

	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// logo 字标很少是词典词，关闭词典
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &Engine{client: client}, nil
}

// Close 释放 Tesseract 资源
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Recognize 对整张图像做识别
func (e *Engine) Recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}

	// PSM 3：全自动版面分析
	if err := e.client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
