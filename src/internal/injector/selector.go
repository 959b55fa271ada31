package injector

import "math/rand"

// Selector 决定在 n 个候选里选哪一个。注入流程里所有的随机性都
// 收口在这里，换成 FirstSelector 即可得到完全确定的输出。
type Selector interface {
	Pick(n int) int
}

// FirstSelector 恒选第一个候选
type FirstSelector struct{}

func (FirstSelector) Pick(n int) int { return 0 }

// RandomSelector 带种子的随机选择
type RandomSelector struct {
	rng *rand.Rand
}

func NewRandomSelector(seed int64) *RandomSelector {
	return &RandomSelector{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomSelector) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return s.rng.Intn(n)
}
