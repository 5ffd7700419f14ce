package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/Morwran/yagpt"
)

// ErrYandexCredentials is returned when the yandex provider is selected without its credentials.
var ErrYandexCredentials = errors.New("yandex provider needs YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID")

// YandexClient answers through YandexGPT Lite. It ignores the fixed sampling
// parameters of the Together.ai path; the yagpt API does not expose them.
type YandexClient struct {
	ya       yagpt.YaGPTFace
	iamToken string
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	if oauthToken == "" || folderID == "" {
		return nil, ErrYandexCredentials
	}
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init yandex iam: %w", err)
	}
	resp, err := iam.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create iam token: %w", err)
	}

	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to init yagpt: %w", err)
	}
	return newYandexWith(ya, resp.IamToken), nil
}

func newYandexWith(ya yagpt.YaGPTFace, iamToken string) *YandexClient {
	return &YandexClient{ya: ya, iamToken: iamToken}
}

func (c *YandexClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	conv := make([]yagpt.Message, len(messages))
	for i, m := range messages {
		conv[i] = yagpt.Message{Role: m.Role, Content: m.Content}
	}

	resp, err := c.ya.CompletionWithCtx(ctx, c.iamToken, conv)
	if err != nil {
		return Response{}, fmt.Errorf("yagpt completion failed: %w", err)
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		return Response{}, errors.New("yagpt returned no alternatives")
	}

	model := resp.ModelVersion
	if model == "" {
		model = yagpt.YaModelLite
	}
	return Response{
		Content:          resp.Alternatives[0].Message.Content,
		Model:            model,
		PromptTokens:     int(resp.Usage.InputTextTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}, nil
}
