package heuristic

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"call_analysis/internal/feature/callanalysis/domain/entity"
)

// Lexicon は感情判定に使うキーワード一覧です。
// Negativeが先に評価され、両方に一致した場合はNegativeが優先されます。
// 語幹処理や否定の扱いはありません（"not angry" もNegativeになります）。
type Lexicon struct {
	Negative []string `yaml:"negative"`
	Positive []string `yaml:"positive"`
}

// DefaultLexicon は組み込みのキーワード一覧を返します。
func DefaultLexicon() Lexicon {
	return Lexicon{
		Negative: []string{"angry", "frustrated", "upset", "not working", "failed"},
		Positive: []string{"happy", "great", "thank", "thanks", "satisfied"},
	}
}

// LoadLexicon はYAMLファイルからキーワード一覧を読み込みます。
// pathが空の場合はDefaultLexiconを返します。片方のリストが省略された場合は既定値を使います。
func LoadLexicon(path string) (Lexicon, error) {
	def := DefaultLexicon()
	if path == "" {
		return def, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	var lx Lexicon
	if err := yaml.Unmarshal(data, &lx); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	if len(lx.Negative) == 0 {
		lx.Negative = def.Negative
	}
	if len(lx.Positive) == 0 {
		lx.Positive = def.Positive
	}
	return lx, nil
}

// Classify は小文字化したトランスクリプトに対してキーワードの部分一致で感情を判定します。
// 小文字化はstrings.ToLower（1文字対1文字）で行うため、"İ" (U+0130) は "i" になります。
func (l Lexicon) Classify(transcript string) entity.Sentiment {
	low := strings.ToLower(transcript)
	switch {
	case containsAny(low, l.Negative):
		return entity.SentimentNegative
	case containsAny(low, l.Positive):
		return entity.SentimentPositive
	default:
		return entity.SentimentNeutral
	}
}

func (l Lexicon) normalized() Lexicon {
	return Lexicon{
		Negative: lowerAll(l.Negative),
		Positive: lowerAll(l.Positive),
	}
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
