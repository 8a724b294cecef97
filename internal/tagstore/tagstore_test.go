package tagstore

import (
	"crypto/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brave-experiments/boomerang/pkg/math/curve"
	"github.com/brave-experiments/boomerang/pkg/math/sample"
)

func TestInsertRejectsDuplicates(t *testing.T) {
	group := curve.T256()
	s := New(group)

	tag := sample.Scalar(rand.Reader, group)
	nonce := sample.Scalar(rand.Reader, group)
	require.NoError(t, s.Insert(tag, nonce))
	assert.True(t, s.Contains(tag))
	assert.ErrorIs(t, s.Insert(tag, nonce), ErrDoubleSpend)
	assert.Equal(t, 1, s.Len())
}

func TestConcurrentInsertIsAtomic(t *testing.T) {
	group := curve.T256()
	s := New(group)
	tag := sample.Scalar(rand.Reader, group)
	nonce := sample.Scalar(rand.Reader, group)

	const workers = 16
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		i := i
		go func() {
			defer wg.Done()
			errs[i] = s.Insert(tag, nonce)
		}()
	}
	wg.Wait()

	inserted := 0
	for _, err := range errs {
		if err == nil {
			inserted++
		} else {
			assert.ErrorIs(t, err, ErrDoubleSpend)
		}
	}
	assert.Equal(t, 1, inserted)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	group := curve.T256()
	s := New(group)
	tags := make([]curve.Scalar, 4)
	for i := range tags {
		tags[i] = sample.Scalar(rand.Reader, group)
		require.NoError(t, s.Insert(tags[i], sample.Scalar(rand.Reader, group)))
	}

	data, err := s.MarshalBinary()
	require.NoError(t, err)

	loaded, err := Load(group, data)
	require.NoError(t, err)
	assert.Equal(t, s.Len(), loaded.Len())
	for _, tag := range tags {
		assert.True(t, loaded.Contains(tag))
		assert.ErrorIs(t, loaded.Insert(tag, group.NewScalar()), ErrDoubleSpend)
	}
}
