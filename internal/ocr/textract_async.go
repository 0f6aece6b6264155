package ocr

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	ttypes "github.com/aws/aws-sdk-go-v2/service/textract/types"

	"docex/internal/render"
	"docex/pkg/types"
)

// textractAsync starts a text detection job against the object in S3 and
// polls until the job settles. Handles multi-page documents of any size the
// service accepts.
type textractAsync struct {
	client TextractAPI
	max    int
	// pollEvery is how often job status is checked. Overridable in tests.
	pollEvery time.Duration
}

func newTextractAsync(deps Deps) *textractAsync {
	return &textractAsync{client: deps.Textract, max: deps.MaxChars, pollEvery: 2 * time.Second}
}

func (t *textractAsync) Close() error { return nil }

func (t *textractAsync) Extract(ctx context.Context, in Input) (types.OCRResult, error) {
	if in.Bucket == "" || in.Key == "" {
		return types.OCRResult{}, fmt.Errorf("%s backend needs a document in S3 (bucket and key)", BackendTextractAsync)
	}
	start := time.Now()
	started, err := t.client.StartDocumentTextDetection(ctx, &textract.StartDocumentTextDetectionInput{
		DocumentLocation: &ttypes.DocumentLocation{
			S3Object: &ttypes.S3Object{
				Bucket: aws.String(in.Bucket),
				Name:   aws.String(in.Key),
			},
		},
	})
	if err != nil {
		return types.OCRResult{}, fmt.Errorf("start detection for s3://%s/%s: %w", in.Bucket, in.Key, err)
	}
	jobID := aws.ToString(started.JobId)

	blocks, pages, err := t.poll(ctx, jobID)
	if err != nil {
		return types.OCRResult{}, err
	}
	text, sum, n := assemblePaged(blocks)
	res := types.OCRResult{
		Text:     Clean(text, t.max),
		Pages:    pages,
		Backend:  BackendTextractAsync,
		Duration: time.Since(start),
	}
	if n > 0 {
		res.Confidence = sum / float64(n) / 100
	}
	return res, nil
}

// poll waits for the job to settle, then drains all result pages.
func (t *textractAsync) poll(ctx context.Context, jobID string) ([]ttypes.Block, int, error) {
	var blocks []ttypes.Block
	var token *string
	pages := 0
	for {
		out, err := t.client.GetDocumentTextDetection(ctx, &textract.GetDocumentTextDetectionInput{
			JobId:     aws.String(jobID),
			NextToken: token,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("get detection %s: %w", jobID, err)
		}
		switch out.JobStatus {
		case ttypes.JobStatusInProgress:
			select {
			case <-time.After(t.pollEvery):
				continue
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			}
		case ttypes.JobStatusFailed, ttypes.JobStatusPartialSuccess:
			return nil, 0, fmt.Errorf("detection job %s: %s: %s", jobID, out.JobStatus, aws.ToString(out.StatusMessage))
		case ttypes.JobStatusSucceeded:
			blocks = append(blocks, out.Blocks...)
			if out.DocumentMetadata != nil {
				pages = int(aws.ToInt32(out.DocumentMetadata.Pages))
			}
			if out.NextToken == nil {
				return blocks, pages, nil
			}
			token = out.NextToken
		default:
			return nil, 0, fmt.Errorf("detection job %s: unexpected status %s", jobID, out.JobStatus)
		}
	}
}

// assemblePaged groups LINE blocks by page before joining, so text stays in
// reading order even when result pages interleave.
func assemblePaged(blocks []ttypes.Block) (string, float64, int) {
	byPage := map[int32][]string{}
	var pageNums []int32
	var sum float64
	var n int
	for _, b := range blocks {
		if b.BlockType != ttypes.BlockTypeLine {
			continue
		}
		p := aws.ToInt32(b.Page)
		if _, seen := byPage[p]; !seen {
			pageNums = append(pageNums, p)
		}
		byPage[p] = append(byPage[p], aws.ToString(b.Text))
		if b.Confidence != nil {
			sum += float64(*b.Confidence)
			n++
		}
	}
	sort.Slice(pageNums, func(i, j int) bool { return pageNums[i] < pageNums[j] })
	var pages []string
	for _, p := range pageNums {
		pages = append(pages, strings.Join(byPage[p], "\n"))
	}
	return strings.Join(pages, "\n"+render.PageBreak+"\n"), sum, n
}
