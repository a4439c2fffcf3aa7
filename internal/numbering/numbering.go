package numbering

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
)

var (
	// strictPattern is the canonical shape of a document number.
	strictPattern = regexp.MustCompile(`^\d{2}/\d{4}/(HN|RP)$`)
	// widePattern also admits positions above 99.
	widePattern = regexp.MustCompile(`^\d{2,}/\d{4}/(HN|RP)$`)
	// groupPattern is used for regrouping.
	groupPattern = regexp.MustCompile(`^(\d+)/(\d{4})/(HN|RP)$`)
)

// Number is a parsed document number.
type Number struct {
	Seq  int
	Year int
	Code document.Code
}

func (n Number) String() string {
	return Format(n.Seq, n.Year, n.Code)
}

// Format renders seq/year/code with seq zero-padded to two digits.
func Format(seq, year int, code document.Code) string {
	return fmt.Sprintf("%02d/%d/%s", seq, year, code)
}

// Parse reads a number of the form NN/YYYY/CODE.
func Parse(s string) (Number, bool) {
	m := groupPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Number{}, false
	}

	seq, err := strconv.Atoi(m[1])
	if err != nil {
		return Number{}, false
	}

	year, _ := strconv.Atoi(m[2])

	return Number{Seq: seq, Year: year, Code: document.Code(m[3])}, true
}

// Valid reports whether s has the canonical NN/YYYY/CODE shape.
func Valid(s string) bool {
	return strictPattern.MatchString(s)
}

// ValidFor reports whether s is a well-formed number carrying the code of t.
func ValidFor(s string, t document.Type) bool {
	return widePattern.MatchString(s) && strings.HasSuffix(s, "/"+string(t.Code()))
}

// Next returns the number the next document of type t in year would get:
// the count of existing numbers for that type and year, plus one. It does not
// fill gaps.
func Next(docs []*document.Document, t document.Type, year int) string {
	suffix := fmt.Sprintf("/%d/%s", year, t.Code())

	count := 0

	for _, d := range docs {
		n := d.EffectiveNumber()
		if n == "" || !strings.HasSuffix(n, suffix) {
			continue
		}

		if _, ok := Parse(n); ok {
			count++
		}
	}

	return Format(count+1, year, t.Code())
}

// RenumberAfterDeletion drops the document identified by deletedID and
// renumbers the remaining documents of every (year, code) group so that their
// positions are 1..n ordered by creation time. The input is not modified.
func RenumberAfterDeletion(docs []*document.Document, deletedID uuid.UUID) []*document.Document {
	kept := make([]*document.Document, 0, len(docs))

	for _, d := range docs {
		if d.ID == deletedID {
			continue
		}

		kept = append(kept, d)
	}

	return RenumberAll(kept)
}

// RenumberAll renumbers every (year, code) group without removing anything.
// Documents whose number does not parse are returned unchanged.
func RenumberAll(docs []*document.Document) []*document.Document {
	out := document.CloneAll(docs)

	type groupKey struct {
		year int
		code document.Code
	}

	groups := make(map[groupKey][]*document.Document)

	var keys []groupKey

	for _, d := range out {
		n, ok := Parse(d.EffectiveNumber())
		if !ok {
			continue
		}

		k := groupKey{year: n.Year, code: n.Code}
		if _, seen := groups[k]; !seen {
			keys = append(keys, k)
		}

		groups[k] = append(groups[k], d)
	}

	for _, k := range keys {
		group := groups[k]

		slices.SortStableFunc(group, func(a, b *document.Document) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})

		for i, d := range group {
			d.SetNumber(Format(i+1, k.year, k.code))
		}
	}

	return out
}

// Gap describes a (year, code) partition whose positions are not 1..n.
type Gap struct {
	Year      int
	Code      document.Code
	Positions []int
}

// Gaps reports partitions that violate contiguity, plus the numbers that do
// not parse at all. Both are informational.
func Gaps(docs []*document.Document) ([]Gap, []string) {
	type groupKey struct {
		year int
		code document.Code
	}

	positions := make(map[groupKey][]int)

	var malformed []string

	for _, d := range docs {
		num := d.EffectiveNumber()

		n, ok := Parse(num)
		if !ok {
			malformed = append(malformed, num)
			continue
		}

		k := groupKey{year: n.Year, code: n.Code}
		positions[k] = append(positions[k], n.Seq)
	}

	var gaps []Gap

	for k, seqs := range positions {
		slices.Sort(seqs)

		contiguous := true

		for i, s := range seqs {
			if s != i+1 {
				contiguous = false
				break
			}
		}

		if !contiguous {
			gaps = append(gaps, Gap{Year: k.year, Code: k.code, Positions: seqs})
		}
	}

	slices.SortFunc(gaps, func(a, b Gap) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}

		return cmp.Compare(a.Code, b.Code)
	})

	return gaps, malformed
}
