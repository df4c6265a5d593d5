package policy

import (
	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/internal/rag/llm"
)

// TemperatureFor maps an intent to its generation temperature. Factual
// intents run cold, open-ended ones warmer.
func TemperatureFor(intent queryModel.IntentType) float32 {
	switch intent {
	case queryModel.IntentDocumentList:
		return config.TemperatureDocumentList
	case queryModel.IntentExtraction:
		return config.TemperatureExtraction
	case queryModel.IntentComparison:
		return config.TemperatureComparison
	case queryModel.IntentSearch:
		return config.TemperatureSearch
	case queryModel.IntentSummary:
		return config.TemperatureSummary
	case queryModel.IntentQuestion:
		return config.TemperatureQuestion
	case queryModel.IntentCreative:
		return config.TemperatureCreative
	default:
		return config.TemperatureGeneral
	}
}

// GenerateOptionsFor bundles temperature and token budget for the
// provider call.
func GenerateOptionsFor(intent queryModel.IntentType) llm.GenerateOptions {
	return llm.GenerateOptions{
		Temperature: TemperatureFor(intent),
		MaxTokens:   config.GenerationMaxTokens,
	}
}
