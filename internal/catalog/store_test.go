package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSeeder struct {
	rows     []Product
	countErr error
}

func (f *fakeSeeder) Count(context.Context) (int, error) { return len(f.rows), f.countErr }

func (f *fakeSeeder) Insert(_ context.Context, ps []Product) error {
	f.rows = append(f.rows, ps...)
	return nil
}

func TestSeedIfEmpty_SeedsEmptyStoreOnce(t *testing.T) {
	s := &fakeSeeder{}
	ctx := context.Background()

	n, err := SeedIfEmpty(ctx, s, SampleProducts())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Len(t, s.rows, 12)

	n, err = SeedIfEmpty(ctx, s, SampleProducts())
	require.NoError(t, err)
	assert.Zero(t, n, "a populated store is not reseeded")
	assert.Len(t, s.rows, 12)
}

func TestSeedIfEmpty_CountFailure(t *testing.T) {
	s := &fakeSeeder{countErr: errors.New("db down")}

	_, err := SeedIfEmpty(context.Background(), s, SampleProducts())
	assert.Error(t, err)
	assert.Empty(t, s.rows)
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(Opt[int]{}))
	assert.Equal(t, 15, nullable(Some(15)))
	assert.Equal(t, true, nullable(Some(true)))
}
