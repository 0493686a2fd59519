package llm

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tiktoken-go/tokenizer"

	"github.com/Andrewp2/andrew-chat/internal/domain"
)

var (
	codec     tokenizer.Codec
	codecOnce sync.Once
	codecErr  error
)

// getCodec returns the cl100k_base tokenizer.
func getCodec() (tokenizer.Codec, error) {
	codecOnce.Do(func() {
		codec, codecErr = tokenizer.Get(tokenizer.Cl100kBase)
	})
	return codec, codecErr
}

// CountTokens returns the cl100k_base token count of text.
func CountTokens(text string) (int, error) {
	c, err := getCodec()
	if err != nil {
		return 0, err
	}
	ids, _, err := c.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// CheckBudget fails with domain.ErrInvalidRequest when prompt is longer than
// the model's max_tokens. A zero limit means unlimited.
func CheckBudget(prompt string, model domain.ModelConfig) error {
	if model.MaxTokens <= 0 {
		return nil
	}
	n, err := CountTokens(prompt)
	if err != nil {
		return errors.Wrap(err, "count prompt tokens")
	}
	if n > model.MaxTokens {
		return errors.Wrapf(domain.ErrInvalidRequest, "prompt is %d tokens, model %s allows %d", n, model.Name, model.MaxTokens)
	}
	return nil
}
