// Package builtins embeds the engine's sample format catalog (SPEC_FULL.md
// §5.11): a handful of illustrative `.bfdl` descriptions the CLI's
// `--list`/`-f name` flags resolve against, so a user can try the engine
// without writing a description first. This is the registry interface the
// CLI depends on; packaging a full library of descriptions is out of scope.
package builtins

import (
	"context"
	"embed"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

//go:embed formats/*.bfdl
var formatsFS embed.FS

// entry is a loaded sample, keyed by its file name with the extension
// stripped (e.g. "formats/bmp.bfdl" -> "bmp").
type entry struct {
	name   string
	source string
}

var catalog = loadCatalog()

// loadCatalog reads every embedded .bfdl file concurrently via errgroup,
// the teacher's pattern (protocompile's linker) for fanning out independent
// I/O and collecting the first error, though reads from an embed.FS never
// fail in practice; the errgroup plumbing is kept because it is the shape
// a file-system-backed catalog would need.
func loadCatalog() []entry {
	files, err := formatsFS.ReadDir("formats")
	if err != nil {
		return nil
	}
	entries := make([]entry, len(files))
	g, _ := errgroup.WithContext(context.Background())
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			data, err := formatsFS.ReadFile(path.Join("formats", f.Name()))
			if err != nil {
				return err
			}
			name := strings.TrimSuffix(f.Name(), ".bfdl")
			entries[i] = entry{name: name, source: string(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	return entries
}

// Names returns the catalog's format names in sorted order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.name
	}
	return names
}

// Load returns the BFDL source text registered under name, and whether it
// was found.
func Load(name string) (string, bool) {
	for _, e := range catalog {
		if e.name == name {
			return e.source, true
		}
	}
	return "", false
}
