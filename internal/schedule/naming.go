package schedule

import "fmt"

// importedSuffix marks a name that collided with an existing template.
const importedSuffix = " (импортировано)"

// UniqueName returns base if it is not taken, otherwise base with the
// imported suffix, then with a numbered suffix starting at 2. The existing
// set is not mutated; callers registering a batch must add each returned
// name before computing the next one.
func UniqueName(base string, existing map[string]struct{}) string {
	if _, taken := existing[base]; !taken {
		return base
	}
	candidate := base + importedSuffix
	if _, taken := existing[candidate]; !taken {
		return candidate
	}
	for n := 2; ; n++ {
		candidate = fmt.Sprintf("%s (импортировано %d)", base, n)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}
