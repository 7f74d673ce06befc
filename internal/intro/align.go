package intro

import "introseek/internal/fingerprint"

// Match is the best alignment of a reference within an episode.
type Match struct {
	Index    int     `json:"index"`
	Offset   float64 `json:"offset_seconds"`
	Distance int     `json:"distance"`
}

// Align finds the start of the window of episode closest to reference and
// converts it to seconds using quantum. The earliest window wins when several
// share the minimum distance. ok is false when reference is longer than
// episode and no window fits.
func Align(episode, reference fingerprint.Fingerprint, quantum float64) (m Match, ok bool) {
	n, w := len(episode), len(reference)
	if w > n {
		return Match{}, false
	}
	best, bestDist := 0, Distance(reference, episode[:w])
	for i := 1; i <= n-w; i++ {
		if d := Distance(reference, episode[i:i+w]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return Match{Index: best, Offset: float64(best) * quantum, Distance: bestDist}, true
}

// Profile returns the distance of every candidate window in index order. It
// is empty when reference is longer than episode.
func Profile(episode, reference fingerprint.Fingerprint) []int {
	n, w := len(episode), len(reference)
	if w > n {
		return nil
	}
	out := make([]int, n-w+1)
	for i := range out {
		out[i] = Distance(reference, episode[i:i+w])
	}
	return out
}
