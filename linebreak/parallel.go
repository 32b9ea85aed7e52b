package linebreak

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BreakAll 并发优化多条 token 流，结果顺序与输入一致。
// 任一条流失败即取消其余搜索并返回首个错误；各流之间互不共享状态。
func BreakAll(ctx context.Context, streams []*Stream, width float64, params Parameters) ([]*Result, error) {
	results := make([]*Result, len(streams))
	group, ctx := errgroup.WithContext(ctx)
	for i, s := range streams {
		group.Go(func() error {
			res, err := BreakContext(ctx, s, width, params)
			if err != nil {
				return fmt.Errorf("第 %d 个流: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
