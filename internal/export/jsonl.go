package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nuggets-cli/nuggets/internal/index"
)

// FormatJSONL writes one index entry per line.
const FormatJSONL = "jsonl"

// JSONL renders entries as JSON Lines, one compact entry per line.
func JSONL(entries []index.Entry) (string, error) {
	var b strings.Builder
	for i := range entries {
		data, err := json.Marshal(&entries[i])
		if err != nil {
			return "", fmt.Errorf("encoding entry %d: %w", i, err)
		}
		b.Write(data)
		b.WriteString("\n")
	}
	return b.String(), nil
}
