package llm

// Ollama speaks the OpenAI chat API under /v1. A key is only needed
// behind an authenticating proxy.
type Ollama struct {
	*OpenAICompatible
}

func NewOllama(baseURL, apiKey, model string, opts ...Option) *Ollama {
	return &Ollama{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			Name:        "Ollama",
			EnvVar:      "OLLAMA_API_KEY",
			BaseURL:     baseURL,
			APIKey:      apiKey,
			Model:       model,
			AuthHeader:  "Authorization",
			AuthPrefix:  "Bearer ",
			KeyOptional: true,
		}, opts...),
	}
}
