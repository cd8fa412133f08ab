package scope

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanout_AllSucceed(t *testing.T) {
	var n atomic.Int32
	f := &fanout{}
	for i := 0; i < 10; i++ {
		f.do(func() error {
			n.Add(1)
			return nil
		})
	}
	assert.NoError(t, f.wait())
	assert.Equal(t, int32(10), n.Load())
}

func TestFanout_FirstErrorWins(t *testing.T) {
	boom := errors.New("boom")
	f := &fanout{}
	f.do(func() error { return nil })
	f.do(func() error { return boom })
	f.do(func() error { return nil })
	assert.ErrorIs(t, f.wait(), boom)
}

func TestFanout_WaitsForAllBranches(t *testing.T) {
	var done atomic.Int32
	f := &fanout{}
	f.do(func() error { done.Add(1); return errors.New("early failure") })
	f.do(func() error { done.Add(1); return nil })
	_ = f.wait()
	assert.Equal(t, int32(2), done.Load(), "a failing branch must not abandon the others mid-flight")
}
