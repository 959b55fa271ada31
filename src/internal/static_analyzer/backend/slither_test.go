package backend

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInstallResultCachesError 测试安装失败后每个调用者都拿到同一个错误
func TestInstallResultCachesError(t *testing.T) {
	res := &installResult{}
	installErr := errors.New("install failed")

	calls := 0
	first := res.do(func() error {
		calls++
		return installErr
	})
	second := res.do(func() error {
		calls++
		return nil
	})

	assert.Equal(t, 1, calls)
	require.ErrorIs(t, first, installErr)
	require.ErrorIs(t, second, installErr)
}

// TestInstallResultRunsOnceOnSuccess 测试安装成功后不再重复执行
func TestInstallResultRunsOnceOnSuccess(t *testing.T) {
	res := &installResult{}

	calls := 0
	for i := 0; i < 3; i++ {
		require.NoError(t, res.do(func() error {
			calls++
			return nil
		}))
	}
	assert.Equal(t, 1, calls)
}

// TestInstallResultConcurrent 测试并发调用下安装只跑一次且错误一致
func TestInstallResultConcurrent(t *testing.T) {
	res := &installResult{}
	installErr := errors.New("install failed")

	var calls int
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = res.do(func() error {
				calls++
				return installErr
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
	for _, err := range errs {
		assert.ErrorIs(t, err, installErr)
	}
}

// TestNewSlitherBackendDefaults 测试路径和超时的缺省值
func TestNewSlitherBackendDefaults(t *testing.T) {
	b := NewSlitherBackend("", 0)
	assert.Equal(t, "slither", b.slitherPath)
	assert.Positive(t, b.timeout)
}
