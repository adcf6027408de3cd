package segment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/entity"
)

func segmentOf(js ...entity.PageJudgment) entity.Segment {
	return entity.Segment{StartPage: 4, EndPage: 4 + len(js) - 1, Judgments: js}
}

func TestFirstPageWins(t *testing.T) {
	first := judgment(true, "Ofício 12/2023")
	first.Date = "05/03/2023"
	second := judgment(false, "Outro título")
	second.Number = "12/2023"

	doc := FirstPageWins{}.Consolidate(segmentOf(first, second))
	require.Equal(t, first.Metadata, doc.Metadata)
	require.Equal(t, 4, doc.StartPage)
	require.Equal(t, 5, doc.EndPage)
	require.Equal(t, 2, doc.PageCount)
	require.Zero(t, doc.DocumentID)
}

func TestFirstFoundPerField(t *testing.T) {
	s := constants.SentinelsFor(constants.LocalePT)
	first := judgment(true, "Ofício 12/2023")
	empty := entity.DefaultJudgment(s.EmptyPage, constants.SourceEmptyPage)
	third := judgment(false, "ignored")
	third.Date = "05/03/2023"
	third.Number = "12/2023"
	fourth := judgment(false, "ignored")
	fourth.Date = "06/03/2023"

	doc := FirstFoundPerField{}.Consolidate(segmentOf(first, empty, third, fourth))
	require.Equal(t, "Ofício 12/2023", doc.Title)
	require.Equal(t, "05/03/2023", doc.Date)
	require.Equal(t, "12/2023", doc.Number)
	require.Equal(t, s.NotFound, doc.Summary)
	require.Equal(t, 4, doc.PageCount)
}

func TestNewConsolidator(t *testing.T) {
	c, err := NewConsolidator("")
	require.NoError(t, err)
	require.IsType(t, FirstPageWins{}, c)

	c, err = NewConsolidator(StrategyFirstFound)
	require.NoError(t, err)
	require.IsType(t, FirstFoundPerField{}, c)

	_, err = NewConsolidator("majority")
	require.Error(t, err)
}
