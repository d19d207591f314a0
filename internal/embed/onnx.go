package embed

import (
	"context"
	"fmt"
	"math"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
	ort "github.com/yalue/onnxruntime_go"
)

// LocalDimensions is the MiniLM-L6 vector size.
const LocalDimensions = 384

// maxSeqLen caps tokenized input length; MiniLM was trained on 256.
const maxSeqLen = 256

// Local runs a sentence-transformer ONNX model in-process, so batch runs
// need no network access at all. Attention-masked mean pooling over the
// last hidden state, then L2 normalization, matching the reference
// all-MiniLM-L6-v2 setup.
type Local struct {
	tk      *tokenizer.Tokenizer
	session *ort.DynamicAdvancedSession
}

// NewLocal loads the tokenizer.json and model.onnx pair. The ONNX runtime
// environment is initialized once per process.
func NewLocal(modelPath, tokenizerPath string) (*Local, error) {
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("initializing onnx runtime: %w", err)
		}
	}

	tk, err := pretrained.FromFile(tokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer %s: %w", tokenizerPath, err)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"last_hidden_state"}, nil)
	if err != nil {
		return nil, fmt.Errorf("loading onnx model %s: %w", modelPath, err)
	}

	return &Local{tk: tk, session: session}, nil
}

// Embed generates the vector for one text.
func (l *Local) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	en, err := l.tk.EncodeSingle(text, true)
	if err != nil {
		return nil, fmt.Errorf("tokenizing text: %w", err)
	}

	seqLen := len(en.Ids)
	if seqLen > maxSeqLen {
		seqLen = maxSeqLen
	}
	if seqLen == 0 {
		return nil, fmt.Errorf("empty token sequence")
	}

	ids := make([]int64, seqLen)
	mask := make([]int64, seqLen)
	typeIDs := make([]int64, seqLen)
	for i := 0; i < seqLen; i++ {
		ids[i] = int64(en.Ids[i])
		mask[i] = int64(en.AttentionMask[i])
		typeIDs[i] = int64(en.TypeIds[i])
	}

	shape := ort.NewShape(1, int64(seqLen))
	idTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("creating input tensor: %w", err)
	}
	defer idTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		return nil, fmt.Errorf("creating mask tensor: %w", err)
	}
	defer maskTensor.Destroy()
	typeTensor, err := ort.NewTensor(shape, typeIDs)
	if err != nil {
		return nil, fmt.Errorf("creating type tensor: %w", err)
	}
	defer typeTensor.Destroy()

	outputs := []ort.Value{nil}
	if err := l.session.Run([]ort.Value{idTensor, maskTensor, typeTensor}, outputs); err != nil {
		return nil, fmt.Errorf("running onnx session: %w", err)
	}
	hidden, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output tensor type %T", outputs[0])
	}
	defer hidden.Destroy()

	return meanPool(hidden.GetData(), mask, seqLen), nil
}

// EmbedBatch embeds texts one at a time; the model session holds its own
// buffers, so per-text calls keep memory flat on long batches.
func (l *Local) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := l.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the model vector size.
func (l *Local) Dimensions() int {
	return LocalDimensions
}

// Close releases the ONNX session.
func (l *Local) Close() error {
	return l.session.Destroy()
}

// meanPool averages the token vectors weighted by the attention mask and
// L2-normalizes the result.
func meanPool(hidden []float32, mask []int64, seqLen int) []float32 {
	pooled := make([]float32, LocalDimensions)
	var count float32
	for t := 0; t < seqLen; t++ {
		if mask[t] == 0 {
			continue
		}
		count++
		base := t * LocalDimensions
		for d := 0; d < LocalDimensions; d++ {
			pooled[d] += hidden[base+d]
		}
	}
	if count == 0 {
		return pooled
	}

	var norm float64
	for d := range pooled {
		pooled[d] /= count
		norm += float64(pooled[d]) * float64(pooled[d])
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for d := range pooled {
			pooled[d] *= scale
		}
	}
	return pooled
}
