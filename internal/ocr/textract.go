package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	ttypes "github.com/aws/aws-sdk-go-v2/service/textract/types"

	"docex/internal/render"
	"docex/pkg/types"
)

// TextractAPI is the subset of the Textract client the backends use.
type TextractAPI interface {
	DetectDocumentText(ctx context.Context, params *textract.DetectDocumentTextInput, optFns ...func(*textract.Options)) (*textract.DetectDocumentTextOutput, error)
	StartDocumentTextDetection(ctx context.Context, params *textract.StartDocumentTextDetectionInput, optFns ...func(*textract.Options)) (*textract.StartDocumentTextDetectionOutput, error)
	GetDocumentTextDetection(ctx context.Context, params *textract.GetDocumentTextDetectionInput, optFns ...func(*textract.Options)) (*textract.GetDocumentTextDetectionOutput, error)
}

// maxSyncImageBytes is the synchronous DetectDocumentText payload limit.
const maxSyncImageBytes = 10 << 20

// textractSync renders each page to PNG and runs synchronous detection per
// page. Suited to small documents; large ones should use the async backend.
type textractSync struct {
	client TextractAPI
	opts   render.Options
	max    int
	// renderPages is swapped out in tests.
	renderPages func(ctx context.Context, pdf []byte, opts render.Options) ([][]byte, error)
}

func newTextractSync(deps Deps) *textractSync {
	return &textractSync{
		client:      deps.Textract,
		opts:        render.Options{DPI: deps.RenderDPI, MaxPages: deps.MaxPages},
		max:         deps.MaxChars,
		renderPages: render.PageImages,
	}
}

func (t *textractSync) Close() error { return nil }

func (t *textractSync) Extract(ctx context.Context, in Input) (types.OCRResult, error) {
	start := time.Now()
	pages, err := t.renderPages(ctx, in.Bytes, t.opts)
	if err != nil {
		return types.OCRResult{}, err
	}
	var texts []string
	var confSum float64
	var confN int
	for i, png := range pages {
		if len(png) > maxSyncImageBytes {
			return types.OCRResult{}, fmt.Errorf("page %d image is %d bytes, over the synchronous limit; use the %s backend", i+1, len(png), BackendTextractAsync)
		}
		out, err := t.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
			Document: &ttypes.Document{Bytes: png},
		})
		if err != nil {
			return types.OCRResult{}, fmt.Errorf("detect page %d: %w", i+1, err)
		}
		text, sum, n := assembleLines(out.Blocks)
		texts = append(texts, text)
		confSum += sum
		confN += n
	}
	res := types.OCRResult{
		Text:     Clean(strings.Join(texts, "\n"+render.PageBreak+"\n"), t.max),
		Pages:    len(pages),
		Backend:  BackendTextract,
		Duration: time.Since(start),
	}
	if confN > 0 {
		res.Confidence = confSum / float64(confN) / 100
	}
	return res, nil
}

// assembleLines joins LINE blocks in reading order and accumulates raw
// percent confidences.
func assembleLines(blocks []ttypes.Block) (string, float64, int) {
	var lines []string
	var sum float64
	var n int
	for _, b := range blocks {
		if b.BlockType != ttypes.BlockTypeLine {
			continue
		}
		lines = append(lines, aws.ToString(b.Text))
		if b.Confidence != nil {
			sum += float64(*b.Confidence)
			n++
		}
	}
	return strings.Join(lines, "\n"), sum, n
}
