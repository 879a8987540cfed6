// Package arrange partitions a rummy hand into melds minimizing
// deadwood. Exhaustive partitioning is exponential in the worst case,
// so a bounded, deterministic heuristic is used: pure-sequence seeds
// are enumerated, each seed gets a greedy extraction pass plus a
// one-joker repair pass, and the lowest-deadwood result wins. The
// heuristic is not proven optimal for every joker distribution; that
// is documented behavior, relied on by scoring and by every bot tier.
package arrange

import (
	"sort"

	"github.com/playrummy/rummybots/internal/deck"
	"github.com/playrummy/rummybots/internal/meld"
)

// Arrangement is one partition of a hand into melds plus deadwood.
// Unused jokers count as deadwood cards (they block a declaration)
// even though they score zero points.
type Arrangement struct {
	Melds    []meld.Meld
	Deadwood []deck.Card
}

// DeadwoodPoints sums the point value of the unmelded cards.
func (a Arrangement) DeadwoodPoints() int {
	total := 0
	for _, c := range a.Deadwood {
		total += c.Points()
	}
	return total
}

// SequenceCount counts sequences, pure ones included.
func (a Arrangement) SequenceCount() int {
	n := 0
	for _, m := range a.Melds {
		if m.Kind == meld.Sequence || m.Kind == meld.PureSequence {
			n++
		}
	}
	return n
}

// PureSequenceCount counts pure sequences only.
func (a Arrangement) PureSequenceCount() int {
	n := 0
	for _, m := range a.Melds {
		if m.Kind == meld.PureSequence {
			n++
		}
	}
	return n
}

// Declarable reports whether the arrangement satisfies the declaration
// shape: zero deadwood, at least one pure sequence and at least two
// sequences in total.
func (a Arrangement) Declarable() bool {
	return len(a.Deadwood) == 0 && a.PureSequenceCount() >= 1 && a.SequenceCount() >= 2
}

// Best returns the lowest-deadwood arrangement the heuristic finds for
// the hand. It returns early on the first declarable zero-deadwood
// arrangement. The result is deterministic for a given hand order-set.
func Best(hand []deck.Card) Arrangement {
	naturals, jokers := split(hand)

	seeds := runSeeds(naturals)
	// A seedless pass still runs so hands without any natural run get
	// an arrangement of sets and joker repairs.
	seeds = append(seeds, nil)

	var best Arrangement
	bestSet := false
	for _, seed := range seeds {
		arr := buildFrom(naturals, jokers, seed)
		if arr.Declarable() {
			return arr
		}
		if !bestSet || arr.DeadwoodPoints() < best.DeadwoodPoints() {
			best = arr
			bestSet = true
		}
	}
	return best
}

// FindDeclaration searches a 14-card hand for a discard that leaves a
// declarable 13-card arrangement. It returns the discard, the
// arrangement, and whether one was found.
func FindDeclaration(hand []deck.Card) (deck.Card, Arrangement, bool) {
	if len(hand) != deck.HandSize+1 {
		return deck.Card{}, Arrangement{}, false
	}
	for i, out := range hand {
		rest := make([]deck.Card, 0, len(hand)-1)
		rest = append(rest, hand[:i]...)
		rest = append(rest, hand[i+1:]...)
		arr := Best(rest)
		if arr.Declarable() {
			return out, arr, true
		}
	}
	return deck.Card{}, Arrangement{}, false
}

// split separates jokers (printed and wild) from natural cards and
// sorts the naturals by suit then rank then ID so every pass over them
// is deterministic.
func split(hand []deck.Card) (naturals []deck.Card, jokers []deck.Card) {
	for _, c := range hand {
		if c.IsJoker() {
			jokers = append(jokers, c)
		} else {
			naturals = append(naturals, c)
		}
	}
	sort.Slice(naturals, func(i, j int) bool {
		if naturals[i].Suit != naturals[j].Suit {
			return naturals[i].Suit < naturals[j].Suit
		}
		if naturals[i].Rank != naturals[j].Rank {
			return naturals[i].Rank < naturals[j].Rank
		}
		return naturals[i].ID < naturals[j].ID
	})
	sort.Slice(jokers, func(i, j int) bool { return jokers[i].ID < jokers[j].ID })
	return naturals, jokers
}

// runSeeds enumerates the maximal same-suit consecutive runs of length
// >=3 among the naturals, with the ace counted both low and high, plus
// the special A-2-3 run. Longest seeds come first.
func runSeeds(naturals []deck.Card) [][]deck.Card {
	bySuit := map[deck.Suit][]deck.Card{}
	for _, c := range naturals {
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
	}

	var seeds [][]deck.Card
	for suit := deck.Spades; suit <= deck.Clubs; suit++ {
		cards := bySuit[suit]
		if len(cards) < 3 {
			continue
		}
		// One card per rank; order positions 1..14 with the ace at
		// both ends when present.
		byOrder := map[int]deck.Card{}
		for _, c := range cards {
			o := int(c.Rank)
			if _, dup := byOrder[o]; !dup {
				byOrder[o] = c
			}
			if c.Rank == deck.Ace {
				if _, dup := byOrder[14]; !dup {
					byOrder[14] = c
				}
			}
		}
		// Maximal consecutive blocks over 1..14.
		for start := 1; start <= 14; start++ {
			if _, ok := byOrder[start]; !ok {
				continue
			}
			if _, prev := byOrder[start-1]; prev {
				continue // not a block start
			}
			end := start
			for {
				if _, ok := byOrder[end+1]; !ok {
					break
				}
				end++
			}
			if end-start+1 < 3 {
				continue
			}
			run := make([]deck.Card, 0, end-start+1)
			aceTwice := false
			for o := start; o <= end; o++ {
				c := byOrder[o]
				for _, prev := range run {
					if prev.ID == c.ID {
						aceTwice = true
					}
				}
				run = append(run, c)
			}
			// A block spanning both ace slots with a single ace card
			// cannot use it twice; trim the high end.
			if aceTwice {
				run = run[:len(run)-1]
				if len(run) < 3 {
					continue
				}
			}
			seeds = append(seeds, run)
		}
	}

	sort.SliceStable(seeds, func(i, j int) bool { return len(seeds[i]) > len(seeds[j]) })
	return seeds
}

// buildFrom seeds an arrangement with one pure-sequence candidate and
// greedily melds the remainder: sets first, then further runs, then
// one-joker repairs of near-melds. Whatever is left, jokers included,
// is deadwood.
func buildFrom(naturals []deck.Card, jokers []deck.Card, seed []deck.Card) Arrangement {
	used := map[int]bool{}
	var melds []meld.Meld

	if len(seed) > 0 {
		melds = append(melds, meld.Meld{Kind: meld.PureSequence, Cards: append([]deck.Card(nil), seed...)})
		for _, c := range seed {
			used[c.ID] = true
		}
	}

	remaining := func() []deck.Card {
		var rest []deck.Card
		for _, c := range naturals {
			if !used[c.ID] {
				rest = append(rest, c)
			}
		}
		return rest
	}

	// Same-rank, distinct-suit groups of 3+ become sets.
	for rank := deck.Ace; rank <= deck.King; rank++ {
		var group []deck.Card
		var seen [4]bool
		for _, c := range remaining() {
			if c.Rank == rank && !seen[c.Suit] {
				group = append(group, c)
				seen[c.Suit] = true
			}
		}
		if len(group) >= 3 {
			melds = append(melds, meld.Meld{Kind: meld.Set, Cards: group})
			for _, c := range group {
				used[c.ID] = true
			}
		}
	}

	// Further consecutive runs of 3+ from the remainder; natural runs
	// re-derive as pure sequences, which only helps the declare shape.
	for _, run := range runSeeds(remaining()) {
		usable := true
		for _, c := range run {
			if used[c.ID] {
				usable = false
				break
			}
		}
		if !usable {
			continue
		}
		melds = append(melds, meld.Meld{Kind: meld.KindOf(run), Cards: run})
		for _, c := range run {
			used[c.ID] = true
		}
	}

	// Joker repair: a same-rank pair plus one joker is a set; a
	// same-suit pair that is adjacent or one rank apart plus one joker
	// is a sequence, the joker extending or filling the gap.
	jokerIdx := 0
	rest := remaining()
	for i := 0; i < len(rest) && jokerIdx < len(jokers); i++ {
		if used[rest[i].ID] {
			continue
		}
		for j := i + 1; j < len(rest); j++ {
			if used[rest[j].ID] {
				continue
			}
			a, b := rest[i], rest[j]
			var kind meld.Kind
			switch {
			case a.Rank == b.Rank && a.Suit != b.Suit:
				kind = meld.Set
			case a.Suit == b.Suit && a.Rank != b.Rank && rankGap(a.Rank, b.Rank) <= 1:
				kind = meld.Sequence
			default:
				continue
			}
			melds = append(melds, meld.Meld{Kind: kind, Cards: []deck.Card{a, b, jokers[jokerIdx]}})
			used[a.ID], used[b.ID] = true, true
			jokerIdx++
			break
		}
	}

	arr := Arrangement{Melds: melds, Deadwood: remaining()}
	arr.Deadwood = append(arr.Deadwood, jokers[jokerIdx:]...)
	return arr
}

// rankGap is the number of missing ranks between two ranks, computed
// under both ace interpretations; the smaller gap wins.
func rankGap(a, b deck.Rank) int {
	gap := gapAbs(int(a), int(b))
	if a == deck.Ace || b == deck.Ace {
		ai, bi := int(a), int(b)
		if a == deck.Ace {
			ai = 14
		}
		if b == deck.Ace {
			bi = 14
		}
		if high := gapAbs(ai, bi); high < gap {
			gap = high
		}
	}
	return gap
}

func gapAbs(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d - 1
}
