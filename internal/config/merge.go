package config

import "strconv"

// Merge layers overlay on top of base and returns a new tree. Neither input is
// modified and the result shares no maps with them.
//
// Overlay values win for every key. Where both sides hold a nested tree under
// the same non-numeric key the two trees are merged recursively, so a user
// section only needs to name the fields it changes. Numeric keys are list
// positions and are replaced wholesale. When the overlay holds a scalar where
// the base holds a tree, the scalar wins outright.
func Merge(base, overlay Tree) Tree {
	result := make(Tree, len(base)+len(overlay))
	for k, v := range base {
		result[k] = cloneValue(v)
	}
	for k, v := range overlay {
		result[k] = cloneValue(v)
	}

	for key, value := range base {
		baseTree, ok := AsTree(value)
		if !ok {
			continue
		}
		overlayValue, exists := overlay[key]
		if !exists {
			continue
		}
		if isIndexKey(key) {
			continue
		}
		overlayTree, ok := AsTree(overlayValue)
		if !ok {
			continue
		}
		result[key] = Merge(baseTree, overlayTree)
	}

	return result
}

// MergeAll merges the trees left to right.
func MergeAll(base Tree, overlays ...Tree) Tree {
	result := base.Clone()
	if result == nil {
		result = Tree{}
	}
	for _, overlay := range overlays {
		result = Merge(result, overlay)
	}
	return result
}

func isIndexKey(key string) bool {
	_, err := strconv.Atoi(key)
	return err == nil
}
