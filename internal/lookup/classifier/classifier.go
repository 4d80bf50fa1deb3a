// Package classifier labels food photos with a Food-101 ONNX model run
// through ONNX Runtime.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var ErrNotConfigured = errors.New("classifier model is not configured")

// OnnxClassifier owns one ONNX Runtime session. The session is bound to a
// single input and output tensor, so Classify calls are serialised.
type OnnxClassifier struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	labels  []string
}

// NewOnnxClassifier loads the shared ONNX Runtime library (libPath may be
// empty to use the system default) and the model at modelPath. inputName
// and outputName are the model's tensor names.
func NewOnnxClassifier(modelPath, libPath, inputName, outputName string) (*OnnxClassifier, error) {
	if modelPath == "" {
		return nil, ErrNotConfigured
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize onnxruntime: %w", err)
		}
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, InputSize, InputSize, 3))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(Food101))))
	if err != nil {
		_ = input.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{inputName}, []string{outputName},
		[]ort.Value{input}, []ort.Value{output}, nil)
	if err != nil {
		_ = input.Destroy()
		_ = output.Destroy()
		return nil, fmt.Errorf("failed to load model %s: %w", modelPath, err)
	}

	return &OnnxClassifier{
		session: session,
		input:   input,
		output:  output,
		labels:  Food101,
	}, nil
}

// Classify returns the most probable Food-101 label and its probability.
func (c *OnnxClassifier) Classify(ctx context.Context, img image.Image) (string, float32, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	pixels := Preprocess(img)

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.input.GetData(), pixels)
	if err := c.session.Run(); err != nil {
		return "", 0, fmt.Errorf("failed to run model: %w", err)
	}

	idx, conf := Argmax(c.output.GetData())
	if idx < 0 || idx >= len(c.labels) {
		return "", 0, fmt.Errorf("model returned %d scores for %d labels", len(c.output.GetData()), len(c.labels))
	}
	return c.labels[idx], conf, nil
}

func (c *OnnxClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(c.session.Destroy(), c.input.Destroy(), c.output.Destroy())
}

// DisplayName turns a label such as "fried_rice" into "fried rice".
func DisplayName(label string) string {
	return strings.ReplaceAll(label, "_", " ")
}
