package render

import (
	"strings"
	"testing"

	"github.com/pbaille/voyago/internal/domain"
	"github.com/stretchr/testify/require"
)

func items() []domain.ItineraryItem {
	return []domain.ItineraryItem{
		{Day: 1, PlaceName: "Red Fort", StartTime: "09:00", EndTime: "11:00", Notes: "Type: Historical", EstimatedCost: 36.4},
		{Day: 2, PlaceName: "Dhaba <Sharma & Sons>", StartTime: "09:00", EndTime: "10:00", Notes: "Type: Food", EstimatedCost: 0},
	}
}

func TestItineraryHTML(t *testing.T) {
	out, err := ItineraryHTML(items())
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, `<table class="table table-sm"><thead><tr><th>day</th>`))
	require.Contains(t, out, "<td>Red Fort</td>")
	require.Contains(t, out, "<td>36.40</td>")
	require.Contains(t, out, "Dhaba &lt;Sharma &amp; Sons&gt;")
	require.Equal(t, 3, strings.Count(out, "<tr>"))
}

func TestItineraryHTMLEmpty(t *testing.T) {
	out, err := ItineraryHTML(nil)
	require.NoError(t, err)
	require.Contains(t, out, "<tbody></tbody>")
}

func TestParseTableRoundTrip(t *testing.T) {
	out, err := ItineraryHTML(items())
	require.NoError(t, err)

	rows, err := ParseTable(out)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"1", "Red Fort", "09:00", "11:00", "Type: Historical", "36.40"},
		{"2", "Dhaba <Sharma & Sons>", "09:00", "10:00", "Type: Food", "0.00"},
	}, rows)
}

func TestParseTableIgnoresOtherMarkup(t *testing.T) {
	rows, err := ParseTable("<p>no table here</p>")
	require.NoError(t, err)
	require.Empty(t, rows)
}
