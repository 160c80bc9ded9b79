// Package assets embeds the bundled puzzle files so the server and the
// terminal client always have a daily puzzle without any configuration.
package assets

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed puzzles/*.json
var FS embed.FS

const puzzleDir = "puzzles"

// PuzzleIDs lists the embedded puzzle ids (file names without .json), sorted.
func PuzzleIDs() ([]string, error) {
	ents, err := fs.ReadDir(FS, puzzleDir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}

// ReadPuzzle returns the raw JSON of an embedded puzzle.
func ReadPuzzle(id string) ([]byte, error) {
	return FS.ReadFile(path.Join(puzzleDir, id+".json"))
}
