package injector

import (
	"fmt"
	"sort"
)

// AppliedRegion 拼接完成后某段载荷在输出文件里的字节范围 [Start, End)
type AppliedRegion struct {
	Start     int
	End       int
	Component string
}

// Splice 把所有载荷按原始偏移插入 content。按偏移从高到低应用，
// 先插的不影响后插的位置；最终范围 = 原始偏移 + 更低偏移载荷的总长度。
// 任何校验失败都在改动源码之前返回错误。
func Splice(content []byte, payloads []Payload) ([]byte, []AppliedRegion, error) {
	if len(payloads) == 0 {
		out := make([]byte, len(content))
		copy(out, content)
		return out, nil, nil
	}

	seen := map[int]bool{}
	for _, p := range payloads {
		if p.Offset < 0 || p.Offset > len(content) {
			return nil, nil, fmt.Errorf("%w: %s at %d (source is %d bytes)",
				ErrUnresolvedRange, p.Component, p.Offset, len(content))
		}
		if seen[p.Offset] {
			return nil, nil, fmt.Errorf("%w: %s at %d", ErrDuplicateOffset, p.Component, p.Offset)
		}
		seen[p.Offset] = true
	}

	sorted := make([]Payload, len(payloads))
	copy(sorted, payloads)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset > sorted[j].Offset
	})

	result := make([]byte, len(content))
	copy(result, content)

	var regions []AppliedRegion
	for i, p := range sorted {
		// 比当前偏移低的载荷之后才插入，会把这一段整体往后推
		bytesAddedBefore := 0
		for _, later := range sorted[i+1:] {
			bytesAddedBefore += len(later.Content)
		}
		start := p.Offset + bytesAddedBefore
		regions = append(regions, AppliedRegion{
			Start:     start,
			End:       start + len(p.Content),
			Component: p.Component,
		})

		spliced := make([]byte, 0, len(result)+len(p.Content))
		spliced = append(spliced, result[:p.Offset]...)
		spliced = append(spliced, p.Content...)
		spliced = append(spliced, result[p.Offset:]...)
		result = spliced
	}

	return result, regions, nil
}
