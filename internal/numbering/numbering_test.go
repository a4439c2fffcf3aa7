package numbering_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cabinetdoc/internal/document"
	"github.com/MrJamesThe3rd/cabinetdoc/internal/numbering"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 9, 0, 0, 0, time.UTC)
}

func feeNote(number string, created time.Time) *document.Document {
	d := &document.Document{ID: uuid.New(), CreatedAt: created, Status: document.StatusCompleted}
	d.SetForm(&document.FeeNote{})
	d.SetNumber(number)

	return d
}

func report(number string, created time.Time) *document.Document {
	d := &document.Document{ID: uuid.New(), CreatedAt: created, Status: document.StatusCompleted}
	d.SetForm(&document.CapitalReport{})
	d.SetNumber(number)

	return d
}

func numbers(docs []*document.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Number
	}

	return out
}

func TestFormatAndParse(t *testing.T) {
	assert.Equal(t, "01/2025/HN", numbering.Format(1, 2025, document.CodeFeeNote))
	assert.Equal(t, "100/2025/RP", numbering.Format(100, 2025, document.CodeCapitalReport))

	n, ok := numbering.Parse("07/2024/RP")
	require.True(t, ok)
	assert.Equal(t, numbering.Number{Seq: 7, Year: 2024, Code: document.CodeCapitalReport}, n)
	assert.Equal(t, "07/2024/RP", n.String())

	_, ok = numbering.Parse("7-2024-RP")
	assert.False(t, ok)
}

func TestValid(t *testing.T) {
	assert.True(t, numbering.Valid("01/2025/HN"))
	assert.False(t, numbering.Valid("1/2025/HN"))
	assert.False(t, numbering.Valid("100/2025/HN"))
	assert.False(t, numbering.Valid("01/25/HN"))
	assert.False(t, numbering.Valid("01/2025/XX"))

	assert.True(t, numbering.ValidFor("100/2025/HN", document.TypeFeeNote))
	assert.False(t, numbering.ValidFor("01/2025/RP", document.TypeFeeNote))
}

func TestNext(t *testing.T) {
	type testCase struct {
		name    string
		docs    []*document.Document
		docType document.Type
		year    int
		want    string
	}

	tests := []testCase{
		{
			name:    "Empty",
			docType: document.TypeFeeNote,
			year:    2025,
			want:    "01/2025/HN",
		},
		{
			name: "CountsOnlySameTypeAndYear",
			docs: []*document.Document{
				feeNote("01/2025/HN", day(1)),
				feeNote("02/2025/HN", day(2)),
				feeNote("01/2024/HN", day(3)),
				report("01/2025/RP", day(4)),
			},
			docType: document.TypeFeeNote,
			year:    2025,
			want:    "03/2025/HN",
		},
		{
			name: "DoesNotFillGaps",
			docs: []*document.Document{
				report("01/2025/RP", day(1)),
				report("03/2025/RP", day(2)),
			},
			docType: document.TypeCapitalReport,
			year:    2025,
			want:    "03/2025/RP",
		},
		{
			name: "IgnoresMalformed",
			docs: []*document.Document{
				feeNote("HN-2025-1", day(1)),
				feeNote("", day(2)),
			},
			docType: document.TypeFeeNote,
			year:    2025,
			want:    "01/2025/HN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numbering.Next(tt.docs, tt.docType, tt.year))
		})
	}
}

func TestRenumberAfterDeletion_Contiguous(t *testing.T) {
	a := feeNote("01/2025/HN", day(1))
	b := feeNote("02/2025/HN", day(2))
	c := feeNote("03/2025/HN", day(3))
	r := report("01/2025/RP", day(2))

	got := numbering.RenumberAfterDeletion([]*document.Document{a, b, c, r}, b.ID)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"01/2025/HN", "02/2025/HN", "01/2025/RP"}, numbers(got))
	assert.Equal(t, c.ID, got[1].ID)
	assert.Equal(t, "02/2025/HN", got[1].FeeNote.Number)

	assert.Equal(t, "03/2025/HN", c.Number, "input must not be mutated")
}

func TestRenumberAfterDeletion_OrdersByCreationTime(t *testing.T) {
	late := report("01/2025/RP", day(10))
	early := report("02/2025/RP", day(5))
	gone := report("03/2025/RP", day(7))

	got := numbering.RenumberAfterDeletion([]*document.Document{late, early, gone}, gone.ID)

	byID := map[uuid.UUID]string{}
	for _, d := range got {
		byID[d.ID] = d.Number
	}

	assert.Equal(t, "01/2025/RP", byID[early.ID])
	assert.Equal(t, "02/2025/RP", byID[late.ID])
}

func TestRenumberAfterDeletion_YearsAreSeparate(t *testing.T) {
	docs := []*document.Document{
		feeNote("01/2024/HN", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		feeNote("02/2024/HN", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
		feeNote("01/2025/HN", day(1)),
		feeNote("02/2025/HN", day(2)),
	}

	got := numbering.RenumberAfterDeletion(docs, docs[0].ID)

	assert.Equal(t, []string{"01/2024/HN", "01/2025/HN", "02/2025/HN"}, numbers(got))
}

func TestRenumberAfterDeletion_MalformedUntouched(t *testing.T) {
	bad := feeNote("HN/2025/7", day(1))
	a := feeNote("02/2025/HN", day(2))

	got := numbering.RenumberAfterDeletion([]*document.Document{bad, a}, uuid.New())

	assert.Equal(t, []string{"HN/2025/7", "01/2025/HN"}, numbers(got))
}

func TestRenumberAfterDeletion_UnknownIDKeepsAll(t *testing.T) {
	docs := []*document.Document{feeNote("01/2025/HN", day(1)), feeNote("02/2025/HN", day(2))}

	got := numbering.RenumberAfterDeletion(docs, uuid.New())

	assert.Equal(t, numbers(docs), numbers(got))
}

func TestRenumberAfterDeletion_Deterministic(t *testing.T) {
	docs := []*document.Document{
		feeNote("04/2025/HN", day(4)),
		feeNote("01/2025/HN", day(1)),
		feeNote("02/2025/HN", day(1)),
		feeNote("03/2025/HN", day(3)),
		report("01/2025/RP", day(2)),
	}

	first := numbering.RenumberAfterDeletion(docs, docs[3].ID)
	second := numbering.RenumberAfterDeletion(docs, docs[3].ID)

	assert.Equal(t, numbers(first), numbers(second))
	assert.Equal(t, []string{"03/2025/HN", "01/2025/HN", "02/2025/HN", "01/2025/RP"}, numbers(first))
}

func TestRenumberAll_AfterBulkRemoval(t *testing.T) {
	docs := []*document.Document{
		feeNote("01/2025/HN", day(1)),
		feeNote("04/2025/HN", day(4)),
		feeNote("06/2025/HN", day(6)),
	}

	got := numbering.RenumberAll(docs)

	assert.Equal(t, []string{"01/2025/HN", "02/2025/HN", "03/2025/HN"}, numbers(got))

	gaps, malformed := numbering.Gaps(got)
	assert.Empty(t, gaps)
	assert.Empty(t, malformed)
}

func TestGaps(t *testing.T) {
	docs := []*document.Document{
		feeNote("01/2025/HN", day(1)),
		feeNote("03/2025/HN", day(2)),
		report("01/2025/RP", day(1)),
		report("bad", day(1)),
	}

	gaps, malformed := numbering.Gaps(docs)

	require.Len(t, gaps, 1)
	assert.Equal(t, numbering.Gap{Year: 2025, Code: document.CodeFeeNote, Positions: []int{1, 3}}, gaps[0])
	assert.Equal(t, []string{"bad"}, malformed)
}
