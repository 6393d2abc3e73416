package document

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/luminareads/lingopress"
)

// encodePath turns a child-index walk from the parsed root into an opaque
// locator. Reconstruction re-parses the same source, so the encoded indices
// resolve to the identical node.
func encodePath(path []int) lingopress.Locator {
	parts := make([]string, len(path))
	for i, idx := range path {
		parts[i] = strconv.Itoa(idx)
	}
	return lingopress.Locator{Path: strings.Join(parts, "/")}
}

// resolvePath walks a locator from the root node down to its text node.
func resolvePath(root *html.Node, loc lingopress.Locator) (*html.Node, error) {
	node := root
	if loc.Path == "" {
		return node, nil
	}

	for _, part := range strings.Split(loc.Path, "/") {
		idx, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("malformed locator %q: %w", loc.Path, err)
		}

		child := node.FirstChild
		for i := 0; i < idx && child != nil; i++ {
			child = child.NextSibling
		}
		if child == nil {
			return nil, fmt.Errorf("locator %q points past child %d", loc.Path, idx)
		}
		node = child
	}
	return node, nil
}
