package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"strings"

	"babel-relay/errors"

	"github.com/samber/lo"
)

//go:embed words/*.txt
var wordFiles embed.FS

// LoadWords reads the embedded per-language word lists and returns the
// deduplicated union. One file per language, one word per line, blank lines
// and "#" comments ignored.
func LoadWords() ([]string, error) {
	files, err := wordFiles.ReadDir("words")
	if err != nil {
		return nil, err
	}

	var words []string
	for _, file := range files {
		data, err := wordFiles.ReadFile("words/" + file.Name())
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			words = append(words, strings.ToLower(line))
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	words = lo.Uniq(words)
	if len(words) == 0 {
		return nil, errors.ErrEmptyWords
	}
	return words, nil
}
