package model

import "strings"

// FindByRole collects all elements in the tree with the given compact role,
// in depth-first order. Depth 0 means unlimited.
func FindByRole(elements []Element, role string, maxDepth int) []Element {
	var result []Element
	collectByRole(elements, role, maxDepth, 1, &result)
	return result
}

func collectByRole(elements []Element, role string, maxDepth, depth int, result *[]Element) {
	if maxDepth > 0 && depth > maxDepth {
		return
	}
	for _, el := range elements {
		if el.Role == role {
			*result = append(*result, el)
		}
		collectByRole(el.Children, role, maxDepth, depth+1, result)
	}
}

// FindButton returns the first enabled button in the tree whose title equals
// the given label (case-insensitive), or nil.
func FindButton(elements []Element, label string) *Element {
	return FindButtonFunc(elements, func(title string) bool {
		return strings.EqualFold(title, label)
	})
}

// FindButtonFunc returns the first enabled button whose title satisfies
// match, or nil.
func FindButtonFunc(elements []Element, match func(title string) bool) *Element {
	for i := range elements {
		el := &elements[i]
		if el.Role == "btn" && el.IsEnabled() && match(el.Title) {
			return el
		}
		if found := FindButtonFunc(el.Children, match); found != nil {
			return found
		}
	}
	return nil
}

// CollectText gathers the text content (title, value, description) of all
// static text nodes in the tree, joined with newlines.
func CollectText(elements []Element) string {
	var parts []string
	collectText(elements, &parts)
	return strings.Join(parts, "\n")
}

func collectText(elements []Element, parts *[]string) {
	for _, el := range elements {
		if el.Role == "txt" {
			if el.Value != "" {
				*parts = append(*parts, el.Value)
			} else if el.Title != "" {
				*parts = append(*parts, el.Title)
			}
		}
		collectText(el.Children, parts)
	}
}

// ContainsText reports whether any element in the tree carries the given
// substring (case-insensitive) in its title, value, or description.
func ContainsText(elements []Element, text string) bool {
	textLower := strings.ToLower(text)
	for _, el := range elements {
		if strings.Contains(strings.ToLower(el.Title), textLower) ||
			strings.Contains(strings.ToLower(el.Value), textLower) ||
			strings.Contains(strings.ToLower(el.Description), textLower) {
			return true
		}
		if ContainsText(el.Children, text) {
			return true
		}
	}
	return false
}
