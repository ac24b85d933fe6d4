package extract

import "strings"

const (
	gymSeparator = "\n\n"
	gymPrimary   = "(Primary)"
	gymOther     = "(Other)"
)

// AttributeGym picks the gym a fighter represented from the raw text of a
// stats table gym cell. Empty text yields nil.
func AttributeGym(raw string) *string {
	if raw == "" {
		return nil
	}
	return ChooseGym(strings.Split(raw, gymSeparator))
}

// ChooseGym applies the gym attribution rule to a candidate list:
//
//   - a single candidate is returned unchanged;
//   - otherwise the first candidate marked (Primary) wins, with the marker
//     removed;
//   - candidates marked (Other) are never chosen;
//   - with no (Primary), the last remaining candidate wins, cut at its first
//     "(";
//   - with no remaining candidate the gym is nil.
func ChooseGym(candidates []string) *string {
	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return optional(candidates[0])
	}

	var fallback []string
	for _, candidate := range candidates {
		if strings.Contains(candidate, gymPrimary) {
			gym := strings.TrimSpace(strings.ReplaceAll(candidate, gymPrimary, ""))
			return &gym
		}
		if strings.Contains(candidate, gymOther) {
			continue
		}
		fallback = append(fallback, candidate)
	}

	if len(fallback) == 0 {
		return nil
	}

	last := fallback[len(fallback)-1]
	gym := strings.TrimSpace(strings.SplitN(last, "(", 2)[0])
	return &gym
}
