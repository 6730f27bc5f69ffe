package equilibrium

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeJobs(n int) <-chan Job {
	ch := make(chan Job, n)
	for i := 0; i < n; i++ {
		ch <- Job{
			Seq: i,
			Params: Params{
				InitialP:       float64(i%10) / 10,
				PopulationSize: 100,
				Generations:    i % 7,
				Selection:      0.1,
			},
		}
	}
	close(ch)
	return ch
}

func TestRunner_OrderPreservation(t *testing.T) {
	r := NewRunner(8)

	var collected []int
	err := OrderedCollect(r.Run(makeJobs(200)), func(res JobResult) error {
		require.NoError(t, res.Err)
		assert.Len(t, res.Generations, res.Params.Generations+1)
		collected = append(collected, res.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestRunner_MatchesSequential(t *testing.T) {
	params := []Params{
		{InitialP: 0.2, PopulationSize: 10, Generations: 30, Selection: 0.5},
		{InitialP: 0.9, PopulationSize: 10, Generations: 30, MutationRate: 0.01},
		{InitialP: 2, PopulationSize: 10},
	}

	results := NewRunner(0).RunAll(params)
	require.Len(t, results, 3)

	for i, p := range params {
		want, wantErr := Simulate(p)
		assert.Equal(t, i, results[i].Seq)
		assert.Equal(t, want, results[i].Generations)
		assert.Equal(t, wantErr, results[i].Err)
	}
	assert.Error(t, results[2].Err)
}

func TestOrderedCollect_StopsOnError(t *testing.T) {
	r := NewRunner(4)
	stop := errors.New("stop")

	count := 0
	err := OrderedCollect(r.Run(makeJobs(50)), func(res JobResult) error {
		count++
		if res.Seq == 9 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 10, count)
}

func TestOrderedCollect_Empty(t *testing.T) {
	ch := make(chan JobResult)
	close(ch)
	err := OrderedCollect(ch, func(JobResult) error {
		return fmt.Errorf("unexpected call")
	})
	assert.NoError(t, err)
}
