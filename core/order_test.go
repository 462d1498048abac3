package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByCustomer(t *testing.T) {
	records := []OrderRecord{
		{Seq: 1, Customer: "bob", Items: []string{"a"}},
		{Seq: 2, Customer: " Alice", Items: []string{"b"}},
		{Seq: 3, Customer: "BOB ", Items: []string{"c"}},
		{Seq: 4, Customer: "alice", Items: []string{"d"}},
	}

	got := GroupByCustomer(records)
	require.Len(t, got, 2)

	assert.Equal(t, "BOB", got[0].Customer, "first-encounter order")
	assert.Equal(t, "ALICE", got[1].Customer)
	assert.Equal(t, []int{1, 3}, seqs(got[0].Orders))
	assert.Equal(t, []int{2, 4}, seqs(got[1].Orders))

	last, ok := got[0].Last()
	require.True(t, ok)
	assert.Equal(t, 3, last.Seq)
}

func TestGroupByCustomerFullCaseMapping(t *testing.T) {
	records := []OrderRecord{
		{Seq: 1, Customer: "weiß", Items: []string{"a"}},
		{Seq: 2, Customer: "WEISS ", Items: []string{"b"}},
	}

	got := GroupByCustomer(records)
	require.Len(t, got, 1)
	assert.Equal(t, "WEISS", got[0].Customer)
	assert.Equal(t, []int{1, 2}, seqs(got[0].Orders))
	assert.Equal(t, NormalizeItem("weiß"), NormalizeCustomer("weiß"))
}

func TestCustomerHistoryLastEmpty(t *testing.T) {
	_, ok := CustomerHistory{Customer: "X"}.Last()
	assert.False(t, ok)
}

func TestNonEmpty(t *testing.T) {
	records := []OrderRecord{
		{Seq: 1, Customer: "a", Items: []string{" ", ""}},
		{Seq: 2, Customer: "a", Items: []string{"x"}},
		{Seq: 3, Customer: "b"},
	}
	got := NonEmpty(records)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Seq)
}

func TestOrderRecordBasket(t *testing.T) {
	r := OrderRecord{Items: []string{"arroz", "Feijão", "ARROZ"}}
	assert.Equal(t, Basket{"ARROZ", "FEIJÃO"}, r.Basket())
}

func seqs(orders []OrderRecord) []int {
	out := make([]int, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Seq)
	}
	return out
}
