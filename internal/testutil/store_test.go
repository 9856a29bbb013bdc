package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"
)

func TestStore_AssignsTIDsAfterSeed(t *testing.T) {
	s := NewStore(taxpayer.Record{TID: 4, FirstName: "Ann", LastName: "Lee", Address: "1 Main St"})

	out, err := s.AddOne(context.Background(), taxpayer.Fields{FirstName: "Bob", LastName: "Young", Address: "9 Elm St"})
	require.NoError(t, err)
	assert.Equal(t, taxpayer.TID(5), out.TID())
	assert.Len(t, s.Records(), 2)
}

func TestStore_InjectedFaultsAndHeal(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.FailFetch(nil)
	_, err := s.FetchAll(ctx)
	assert.ErrorIs(t, err, ErrTransport)

	s.Reject("address required")
	out, err := s.AddOne(ctx, taxpayer.Fields{})
	require.NoError(t, err)
	assert.Equal(t, "address required", out.Reason())

	s.Heal()
	records, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 2, s.FetchCalls())
	assert.Len(t, s.AddCalls(), 1)
}

func TestStore_HeldFetch(t *testing.T) {
	s := NewStore()
	s.HoldFetches()

	result := make(chan []taxpayer.Record, 1)
	go func() {
		records, _ := s.FetchAll(context.Background())
		result <- records
	}()

	held := <-s.Pending()
	want := []taxpayer.Record{{TID: 1, FirstName: "Ann", LastName: "Lee", Address: "1 Main St"}}
	held.Release(want)
	assert.Equal(t, want, <-result)
}

func TestStore_HeldAdd(t *testing.T) {
	s := NewStore()
	s.HoldAdds()
	ctx := context.Background()

	type addResult struct {
		out taxpayer.Outcome
		err error
	}
	result := make(chan addResult, 1)
	go func() {
		out, err := s.AddOne(ctx, taxpayer.Fields{FirstName: "Ann", LastName: "Lee", Address: "1 Main St"})
		result <- addResult{out, err}
	}()

	held := <-s.PendingAdds()
	assert.Equal(t, "Ann", held.Fields.FirstName)
	assert.Empty(t, s.Records(), "nothing stored while held")
	held.Release()

	res := <-result
	require.NoError(t, res.err)
	assert.Equal(t, taxpayer.TID(1), res.out.TID())
	assert.Len(t, s.Records(), 1)

	go func() {
		out, err := s.AddOne(ctx, taxpayer.Fields{FirstName: "Bob", LastName: "Young", Address: "9 Elm St"})
		result <- addResult{out, err}
	}()
	(<-s.PendingAdds()).Fail(nil)

	res = <-result
	assert.ErrorIs(t, res.err, ErrTransport)
	assert.Len(t, s.Records(), 1)
	assert.Len(t, s.AddCalls(), 2)
}

func TestStore_HeldAddHonorsContext(t *testing.T) {
	s := NewStore()
	s.HoldAdds()
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		_, err := s.AddOne(ctx, taxpayer.Fields{FirstName: "Ann", LastName: "Lee", Address: "1 Main St"})
		errc <- err
	}()

	<-s.PendingAdds()
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
	assert.Empty(t, s.Records())
}

func TestSequentialOpIDs(t *testing.T) {
	var g SequentialOpIDs
	assert.Equal(t, "op-1", g.Generate())
	assert.Equal(t, "op-2", g.Generate())
}
