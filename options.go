package docent

// clientConfig collects option values before wiring.
type clientConfig struct {
	driver    string
	addrs     []string
	password  string
	keyPrefix string

	embedder  Embedder
	completer Completer

	openaiKey       string
	openaiBaseURL   string
	completionModel string
	embeddingModel  string

	chunkSize    int
	chunkOverlap int
	topK         int
	threshold    float64
}

// Option configures an embedded client.
type Option func(*clientConfig)

// WithRedis stores the index in Redis so it survives restarts.
func WithRedis(addrs []string, password string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = addrs
		c.password = password
	}
}

// WithKeyPrefix overrides the Redis key prefix (default "docent:").
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) { c.keyPrefix = prefix }
}

// WithOpenAI uses an OpenAI-compatible API for both embeddings and
// completions. baseURL may be empty for the public endpoint.
func WithOpenAI(apiKey, baseURL string) Option {
	return func(c *clientConfig) {
		c.openaiKey = apiKey
		c.openaiBaseURL = baseURL
	}
}

// WithModels overrides the OpenAI model names used by WithOpenAI.
func WithModels(completion, embedding string) Option {
	return func(c *clientConfig) {
		c.completionModel = completion
		c.embeddingModel = embedding
	}
}

// WithEmbedder sets a custom embedding provider instead of WithOpenAI.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) { c.embedder = e }
}

// WithCompleter sets a custom language model provider instead of WithOpenAI.
func WithCompleter(m Completer) Option {
	return func(c *clientConfig) { c.completer = m }
}

// WithChunking overrides the document splitting parameters.
func WithChunking(size, overlap int) Option {
	return func(c *clientConfig) {
		c.chunkSize = size
		c.chunkOverlap = overlap
	}
}

// WithRetrieval overrides the search defaults. threshold < 0 keeps the
// backend default.
func WithRetrieval(topK int, threshold float64) Option {
	return func(c *clientConfig) {
		c.topK = topK
		c.threshold = threshold
	}
}
