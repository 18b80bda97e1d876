// Package providers links every model vendor into the core registry.
package providers

import (
	_ "github.com/stake-plus/veritas/src/ai/gemini"
	_ "github.com/stake-plus/veritas/src/ai/geminirest"
	_ "github.com/stake-plus/veritas/src/ai/groq"
)
