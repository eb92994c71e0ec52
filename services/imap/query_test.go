package imap

import (
	"testing"
	"time"

	goimap "github.com/emersion/go-imap"
	"github.com/stretchr/testify/assert"

	"github.com/mailsift/mailsift/dto"
)

func TestBuildSearchAtoms_CategoryOnly(t *testing.T) {
	atoms := BuildSearchAtoms(dto.FetchQuery{Category: "primary"})

	assert.Equal(t, []interface{}{
		goimap.RawString("UNSEEN"),
		goimap.RawString("X-GM-RAW"),
		"category:primary",
	}, atoms)
}

func TestBuildSearchAtoms_CategoryIsLowercased(t *testing.T) {
	atoms := BuildSearchAtoms(dto.FetchQuery{Category: "Promotions"})

	assert.Equal(t, "category:promotions", atoms[len(atoms)-1])
}

func TestBuildSearchAtoms_DateWindow(t *testing.T) {
	start := time.Date(2023, time.March, 5, 10, 30, 0, 0, time.UTC)
	end := time.Date(2023, time.March, 12, 0, 0, 0, 0, time.UTC)

	atoms := BuildSearchAtoms(dto.FetchQuery{
		Category:  "social",
		StartDate: &start,
		EndDate:   &end,
	})

	assert.Equal(t, []interface{}{
		goimap.RawString("UNSEEN"),
		goimap.RawString("SINCE"),
		goimap.RawString("5-Mar-2023"),
		goimap.RawString("BEFORE"),
		goimap.RawString("12-Mar-2023"),
		goimap.RawString("X-GM-RAW"),
		"category:social",
	}, atoms)
}

func TestBuildSearchAtoms_StartDateOnly(t *testing.T) {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

	atoms := BuildSearchAtoms(dto.FetchQuery{
		Category:  "updates",
		StartDate: &start,
	})

	assert.Contains(t, atoms, goimap.RawString("SINCE"))
	assert.NotContains(t, atoms, goimap.RawString("BEFORE"))
}

func TestBuildSearchAtoms_CategoryPredicateIsLast(t *testing.T) {
	end := time.Date(2023, time.June, 30, 0, 0, 0, 0, time.UTC)

	atoms := BuildSearchAtoms(dto.FetchQuery{
		Category: "forums",
		EndDate:  &end,
	})

	assert.Equal(t, goimap.RawString("X-GM-RAW"), atoms[len(atoms)-2])
	assert.Equal(t, "category:forums", atoms[len(atoms)-1])
}
