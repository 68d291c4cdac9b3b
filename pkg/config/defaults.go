package config

const (
	defaultIndexEngine = "sparse"
	defaultIndexPath   = ".cache/idx.bin"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 768

	defaultAPIListen       = ":8081"
	defaultClientAPITarget = "http://localhost:8081"

	defaultAskK      = 8
	defaultAskLambda = 0.75
	defaultAskMode   = "extractive"

	defaultEvalWorkers = 4
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Index: IndexConfig{
			Engine:         defaultIndexEngine,
			Path:           defaultIndexPath,
			FallbackSparse: true,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Client: ClientConfig{
			APITarget: defaultClientAPITarget,
		},
		Ask: AskConfig{
			K:      defaultAskK,
			Lambda: defaultAskLambda,
			Mode:   defaultAskMode,
		},
		Eval: EvalConfig{
			Workers: defaultEvalWorkers,
		},
	}
}
