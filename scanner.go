package bomsign

import (
	"sort"
	"sync"

	"github.com/mattermost/bomsign/log"
)

// Scan detects which ecosystems are present under root and runs the
// matching registered parsers, concatenating their results. Parsers run
// concurrently; this is safe because deduplication is order-independent
// and parsers share no state.
//
// Two components are merged if and only if (name, version) match exactly.
// The returned sequence is sorted by name then version, so the same
// directory tree always produces the same output.
func Scan(root string) []Component {
	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		discovered []Component
	)

	for name, parser := range parsers {
		if !parser.Detect(root) {
			log.Trace("no marker files for '%s' in '%s'", name, root)
			continue
		}
		wg.Add(1)
		go func(name string, parser Parser) {
			defer wg.Done()
			components, err := parser.Parse(root)
			if err != nil {
				log.Warn("'%s' parser returned an error: %v", name, err)
			}
			mu.Lock()
			discovered = append(discovered, components...)
			mu.Unlock()
		}(name, parser)
	}
	wg.Wait()

	return dedupe(discovered)
}

func dedupe(components []Component) []Component {
	seen := make(map[string]Component, len(components))
	for _, component := range components {
		// last seen wins; values are identical for the same identity
		seen[component.ID()] = component
	}
	out := make([]Component, 0, len(seen))
	for _, component := range seen {
		out = append(out, component)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Version < out[j].Version
	})
	return out
}
