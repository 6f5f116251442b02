package qa

import (
	"fmt"
	"strings"
)

// Strategy extracts pairs from the paragraphs of one document.
type Strategy func(paragraphs []string) []Pair

const (
	StrategyParagraph = "paragraph"
	StrategyBlock     = "block"
)

// StrategyFor resolves a strategy by name. The empty name selects the
// paragraph strategy.
func StrategyFor(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyParagraph:
		return Extract, nil
	case StrategyBlock:
		return ExtractBlocks, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want %s or %s)", name, StrategyParagraph, StrategyBlock)
	}
}
