package ocr

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRecognizer struct {
	text string
	err  error
}

func (f fakeRecognizer) Recognize(image.Image) (string, error) { return f.text, f.err }
func (f fakeRecognizer) Close() error                          { return nil }

func TestRun_Unavailable(t *testing.T) {
	res := Run(nil, Capability{Reason: "no backend"}, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.False(t, res.Available)
	assert.Equal(t, "no backend", res.Reason)
	assert.Empty(t, res.Text)
}

func TestRun_CleansText(t *testing.T) {
	res := Run(fakeRecognizer{text: "  Campus\n  Axis \n"}, Capability{Available: true}, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.True(t, res.Available)
	assert.Equal(t, "Campus Axis", res.Text)
}

func TestRun_FailureIsReported(t *testing.T) {
	res := Run(fakeRecognizer{err: errors.New("boom")}, Capability{Available: true}, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.True(t, res.Available)
	assert.Contains(t, res.Reason, "boom")
}

func TestDetect_ReportsReasonWhenUnavailable(t *testing.T) {
	rec, capability := Detect("eng")
	if capability.Available {
		assert.NotNil(t, rec)
		assert.NoError(t, rec.Close())
		return
	}
	assert.Nil(t, rec)
	assert.NotEmpty(t, capability.Reason)
}
