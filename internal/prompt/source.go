package prompt

import (
	"bufio"
	"fmt"
	"os"
)

// A Source supplies the raw prompt texts a Pool is built from.
type Source interface {
	Lines() ([]string, error)
}

// FileSource reads one prompt per line from a UTF-8 text file.
type FileSource struct {
	Path string
}

func (f FileSource) Lines() ([]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open prompt file: %w", err)
	}
	defer file.Close()

	var lines []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}
	return lines, nil
}

// StaticSource serves a fixed list. Used in tests and as the built-in
// fallback when no prompt file is configured.
type StaticSource []string

func (s StaticSource) Lines() ([]string, error) {
	return s, nil
}

// Builtin is the fallback prompt list used when PROMPT_FILE is unset.
var Builtin = StaticSource{
	"cat", "rocket", "haunted house", "pirate ship", "dancing robot",
	"melting snowman", "angry cloud", "submarine", "giraffe on a bike",
	"wizard duel", "broken umbrella", "alien picnic", "sleepy dragon",
	"roller coaster", "time machine", "grumpy octopus", "disco ball",
	"mountain goat", "flying toaster", "secret tunnel",
}
