package decklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const arenaExport = `Commander
1 Atraxa, Praetors' Voice (2XM) 190

Deck
1 Sol Ring (CMR) 350
4 Arcane Signet
94 Swamp (CMR) 510

Sideboard
2 Duress (M21) 95
`

func TestParseArena(t *testing.T) {
	d, err := ParseArena(arenaExport)
	require.NoError(t, err)

	require.Len(t, d.Commander, 1)
	assert.Equal(t, "Atraxa, Praetors' Voice", d.Commander[0].Name)
	assert.Equal(t, "2xm", d.Commander[0].SetCode)
	assert.Equal(t, "190", d.Commander[0].CollectorNumber)

	require.Len(t, d.Mainboard, 3)
	assert.Equal(t, Entry{Name: "Sol Ring", Quantity: 1, SetCode: "cmr", CollectorNumber: "350"}, d.Mainboard[0])
	assert.Equal(t, Entry{Name: "Arcane Signet", Quantity: 4}, d.Mainboard[1])

	require.Len(t, d.Sideboard, 1)
	assert.Equal(t, "Duress", d.Sideboard[0].Name)

	assert.Equal(t, 102, d.TotalCards())
	assert.Empty(t, d.Warnings)
}

func TestParseArena_BlankLineSwitchesToSideboard(t *testing.T) {
	d, err := ParseArena("Deck\n4 Lightning Bolt (M21) 123\n\n2 Duress (M21) 95\n")
	require.NoError(t, err)
	require.Len(t, d.Mainboard, 1)
	require.Len(t, d.Sideboard, 1)
	assert.Equal(t, "Duress", d.Sideboard[0].Name)
}

func TestParseArena_UnparseableLineWarns(t *testing.T) {
	d, err := ParseArena("Deck\n4 Lightning Bolt\nnot a card line (\n")
	require.NoError(t, err)
	assert.Len(t, d.Mainboard, 1)
	require.Len(t, d.Warnings, 1)
	assert.Contains(t, d.Warnings[0], "line 3")
}

func TestParsePlainText(t *testing.T) {
	input := `4 Lightning Bolt
4x Shock
Mountain x20

Sideboard
2 Smash to Smithereens
`
	d, err := ParsePlainText(input)
	require.NoError(t, err)

	require.Len(t, d.Mainboard, 3)
	assert.Equal(t, Entry{Name: "Lightning Bolt", Quantity: 4}, d.Mainboard[0])
	assert.Equal(t, Entry{Name: "Shock", Quantity: 4}, d.Mainboard[1])
	assert.Equal(t, Entry{Name: "Mountain", Quantity: 20}, d.Mainboard[2])
	require.Len(t, d.Sideboard, 1)
	assert.Equal(t, "Smash to Smithereens", d.Sideboard[0].Name)
}

func TestParsePlainText_CommanderSection(t *testing.T) {
	input := "Commander\n1 Atraxa, Praetors' Voice\n\n1 Sol Ring\n"
	d, err := ParsePlainText(input)
	require.NoError(t, err)
	require.Len(t, d.Commander, 1)
	assert.Equal(t, "Atraxa, Praetors' Voice", d.Commander[0].Name)
	require.Len(t, d.Mainboard, 1)
}

func TestParse_FallsBackToPlainText(t *testing.T) {
	d, err := Parse("Lightning Bolt x4\nShock x2")
	require.NoError(t, err)
	assert.Len(t, d.Mainboard, 2)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("   \n  ")
	assert.Error(t, err)

	_, err = Parse("")
	assert.Error(t, err)
}

func TestParse_NoCards(t *testing.T) {
	_, err := Parse("this is just prose\nwith no card lines at all (")
	assert.Error(t, err)
}
