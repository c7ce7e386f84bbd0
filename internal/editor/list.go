package editor

import (
	"fmt"
	"slices"
	"strings"
)

// SplitList turns a comma-separated input into trimmed items, keeping order
// and dropping empty entries.
func SplitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// JoinList renders a list back into the comma-separated input form
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// AppendBlank adds an empty slot at the end of a positional list
func AppendBlank(items *[]string) int {
	*items = append(*items, "")
	return len(*items) - 1
}

// SetAt replaces the value at index i
func SetAt(items *[]string, i int, value string) error {
	if i < 0 || i >= len(*items) {
		return fmt.Errorf("index %d out of range [0,%d)", i, len(*items))
	}
	(*items)[i] = value
	return nil
}

// RemoveAt deletes the slot at index i, shifting later items down
func RemoveAt(items *[]string, i int) error {
	if i < 0 || i >= len(*items) {
		return fmt.Errorf("index %d out of range [0,%d)", i, len(*items))
	}
	*items = slices.Delete(*items, i, i+1)
	return nil
}
