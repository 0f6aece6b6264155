package model

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/aws/aws-sdk-go-v2/aws"

	"docex/internal/render"
)

const defaultMaxTokens = 2048

// BedrockInvoker talks to Anthropic models hosted on Bedrock.
type BedrockInvoker struct {
	client anthropic.Client
}

// NewBedrock builds an invoker from a resolved AWS config, so region and
// credentials are shared with the other service clients.
func NewBedrock(cfg aws.Config) *BedrockInvoker {
	return &BedrockInvoker{client: anthropic.NewClient(bedrock.WithConfig(cfg))}
}

// NewBedrockDefault resolves AWS config from the environment.
func NewBedrockDefault(ctx context.Context) *BedrockInvoker {
	return &BedrockInvoker{client: anthropic.NewClient(bedrock.WithLoadDefaultConfig(ctx))}
}

func (b *BedrockInvoker) Invoke(ctx context.Context, req Request, w io.Writer, flush func()) (string, error) {
	params, err := buildParams(req)
	if err != nil {
		return "", err
	}
	stream := b.client.Messages.NewStreaming(ctx, params)
	var acc strings.Builder
	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			switch d := ev.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				acc.WriteString(d.Text)
				if w != nil {
					if _, err := io.WriteString(w, d.Text); err != nil {
						return "", err
					}
					if flush != nil {
						flush()
					}
				}
			}
		}
	}
	if err := stream.Err(); err != nil {
		return "", classify(err)
	}
	return acc.String(), nil
}

// buildParams assembles the message: page images first (in order), then the
// prompt text, mirroring how the document is read.
func buildParams(req Request) (anthropic.MessageNewParams, error) {
	if req.Model == "" {
		return anthropic.MessageNewParams{}, fmt.Errorf("model id is required")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return anthropic.MessageNewParams{}, fmt.Errorf("prompt is required")
	}
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Images)+1)
	for _, png := range req.Images {
		blocks = append(blocks, anthropic.NewImageBlockBase64("image/png", render.EncodePNG(png)))
	}
	blocks = append(blocks, anthropic.NewTextBlock(req.Prompt))

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(maxTokens),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	return params, nil
}
