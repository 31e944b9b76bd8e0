//go:build !tesseract

package ocr

// Detect 在未启用 tesseract 的构建中总是返回不可用
func Detect(language string) (Recognizer, Capability) {
	return nil, Capability{
		Available: false,
		Reason:    "built without tesseract support (rebuild with -tags tesseract)",
	}
}
