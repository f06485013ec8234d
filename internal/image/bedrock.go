package image

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/bwhitfield/texforge/internal/log"
	"github.com/samber/do"
)

const titanPrefix = "amazon.titan"

// schemaFamily is the per-provider request/response shape. Bedrock models
// fall into exactly two families for text-to-image; adding a provider means
// adding a variant here, not another string match at the call site.
type schemaFamily interface {
	request(Params) any
	extract([]byte) (string, error)
}

func familyFor(model string) schemaFamily {
	if strings.HasPrefix(model, titanPrefix) {
		return titanFamily{}
	}
	return stabilityFamily{}
}

type titanFamily struct{}

type titanTextParams struct {
	Text string `json:"text"`
}

type titanGenerationConfig struct {
	NumberOfImages int     `json:"numberOfImages"`
	Height         int32   `json:"height"`
	Width          int32   `json:"width"`
	CfgScale       float64 `json:"cfgScale"`
	Seed           int     `json:"seed"`
}

type titanRequest struct {
	TaskType              string                `json:"taskType"`
	TextToImageParams     titanTextParams       `json:"textToImageParams"`
	ImageGenerationConfig titanGenerationConfig `json:"imageGenerationConfig"`
}

type titanResponse struct {
	Images []string `json:"images"`
}

func (titanFamily) request(p Params) any {
	return titanRequest{
		TaskType:          "TEXT_IMAGE",
		TextToImageParams: titanTextParams{Text: p.Prompt},
		ImageGenerationConfig: titanGenerationConfig{
			NumberOfImages: 1,
			Height:         p.Height,
			Width:          p.Width,
			CfgScale:       8.0,
			Seed:           0,
		},
	}
}

func (titanFamily) extract(body []byte) (string, error) {
	var resp titanResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(resp.Images) == 0 {
		return "", fmt.Errorf("%w: no images in response", ErrDecode)
	}
	return resp.Images[0], nil
}

type stabilityFamily struct{}

type stabilityTextPrompt struct {
	Text string `json:"text"`
}

type stabilityRequest struct {
	TextPrompts []stabilityTextPrompt `json:"text_prompts"`
	CfgScale    float64               `json:"cfg_scale"`
	Steps       int                   `json:"steps"`
	Samples     int                   `json:"samples"`
	Width       int32                 `json:"width"`
	Height      int32                 `json:"height"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

func (stabilityFamily) request(p Params) any {
	return stabilityRequest{
		TextPrompts: []stabilityTextPrompt{{Text: p.Prompt}},
		CfgScale:    7,
		Steps:       30,
		Samples:     1,
		Width:       p.Width,
		Height:      p.Height,
	}
}

func (stabilityFamily) extract(body []byte) (string, error) {
	var resp stabilityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(resp.Artifacts) == 0 || resp.Artifacts[0].Base64 == "" {
		return "", fmt.Errorf("%w: no artifacts in response", ErrDecode)
	}
	return resp.Artifacts[0].Base64, nil
}

type BedrockGenerator struct {
	client *bedrockruntime.Client
}

func NewBedrockGenerator(i *do.Injector) (Generator, error) {
	return &BedrockGenerator{client: do.MustInvoke[*bedrockruntime.Client](i)}, nil
}

func (g *BedrockGenerator) Generate(ctx context.Context, params Params) ([]byte, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("bedrock").With("params", params)
	log.Info("generating image via bedrock")

	family := familyFor(params.Model)
	body, err := json.Marshal(family.request(params))
	if err != nil {
		return nil, err
	}

	out, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(params.Model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			log.Error("invoke model failed", "code", apiErr.ErrorCode(), "message", apiErr.ErrorMessage())
		}
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	b64, err := family.extract(out.Body)
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	log.Info("received image via bedrock", "bytes", len(data))
	return data, nil
}
