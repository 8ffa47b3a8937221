// Package token estimates the token cost of conversation messages so that
// the context window sent to a model backend can be bounded to a budget.
//
// Counting uses a BPE encoding selected from the configured model name, with
// a character-based heuristic as the last-resort fallback. Estimator
// construction never fails; an unrecognized model silently degrades through
// the fallback chain.
package token

import (
	"encoding/json"

	"github.com/pkoukk/tiktoken-go"

	"github.com/boarnasia/tinyagents/pkg/llm"
)

const (
	// messageOverheadTokens is the fixed framing cost a backend reserves
	// per message for role and metadata.
	messageOverheadTokens = 4

	// replyPrimingTokens is the fixed allowance added once per estimate
	// for the backend's reply priming.
	replyPrimingTokens = 2

	// fallbackEncoding is the general-purpose encoding used when the
	// model name is not recognized.
	fallbackEncoding = "cl100k_base"
)

// Encoder converts text into a token count. Implementations must be
// deterministic and side-effect free.
type Encoder interface {
	Count(text string) int
}

// Estimator computes token costs for messages using a pluggable Encoder.
type Estimator struct {
	enc Encoder
}

// NewEstimator creates an Estimator with an encoding selected from the model
// name. Unrecognized models fall back to cl100k_base, and if that encoding
// cannot be initialized either, a pure character heuristic takes over.
func NewEstimator(modelName string) *Estimator {
	return &Estimator{enc: encoderForModel(modelName)}
}

// NewEstimatorWithEncoder creates an Estimator with an explicit Encoder.
func NewEstimatorWithEncoder(enc Encoder) *Estimator {
	return &Estimator{enc: enc}
}

// Estimate returns the token cost of the given messages: per-message framing
// overhead plus encoded content plus encoded tool-call payloads, with the
// reply-priming allowance added once.
func (e *Estimator) Estimate(messages []llm.Message) int {
	total := 0
	for _, msg := range messages {
		total += messageOverheadTokens
		if msg.Content != "" {
			total += e.enc.Count(msg.Content)
		}
		if len(msg.ToolCalls) > 0 {
			if payload, err := json.Marshal(msg.ToolCalls); err == nil {
				total += e.enc.Count(string(payload))
			}
		}
	}
	return total + replyPrimingTokens
}

// EstimateText returns the token cost of a bare string (used for serialized
// tool schemas).
func (e *Estimator) EstimateText(text string) int {
	return e.enc.Count(text)
}

func encoderForModel(modelName string) Encoder {
	if enc, err := tiktoken.EncodingForModel(modelName); err == nil {
		return &bpeEncoder{enc: enc}
	}
	if enc, err := tiktoken.GetEncoding(fallbackEncoding); err == nil {
		return &bpeEncoder{enc: enc}
	}
	return HeuristicEncoder{}
}

// bpeEncoder counts tokens with a tiktoken BPE encoding.
type bpeEncoder struct {
	enc *tiktoken.Tiktoken
}

func (b *bpeEncoder) Count(text string) int {
	return len(b.enc.Encode(text, nil, nil))
}

// HeuristicEncoder approximates token counts without a BPE table: ASCII text
// averages ~4 characters per token, non-ASCII (e.g. CJK) ~2 tokens per rune.
type HeuristicEncoder struct{}

func (HeuristicEncoder) Count(text string) int {
	ascii, nonASCII := 0, 0
	for _, r := range text {
		if r <= 127 {
			ascii++
		} else {
			nonASCII++
		}
	}
	return ascii/4 + nonASCII*2
}
