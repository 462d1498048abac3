package recommend_test

import (
	"context"
	"fmt"

	"github.com/rushteam/nextbuy/core"
	"github.com/rushteam/nextbuy/recommend"
)

func ExampleEngine_Recommend() {
	records := []core.OrderRecord{
		{Seq: 1, Customer: "ana", Items: []string{"A", "B"}},
		{Seq: 2, Customer: "rui", Items: []string{"A", "B"}},
		{Seq: 3, Customer: "bia", Items: []string{"A", "C"}},
		{Seq: 4, Customer: "ana", Items: []string{"A"}},
	}
	idx, histories := recommend.Build(records)

	recs, err := (&recommend.Engine{Index: idx}).Recommend(context.Background(), histories)
	if err != nil {
		panic(err)
	}
	for _, r := range recs {
		fmt.Println(r.Customer, r.Top1, r.Score, r.Alternatives)
	}
	// Output:
	// ANA B 0.5 [B C]
	// RUI C 0.25 [C]
	// BIA B 0.5 [B]
}
