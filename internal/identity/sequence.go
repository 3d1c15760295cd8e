package identity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NextSequence 计算某位置前缀下一个未用序号（5位零填充字符串）
// 算法：取所有共享前缀的既有身份码的序号段（偏移10–15），求最大值
// （无则为0）加一。给定一致的既有码快照时是确定且幂等的。
// 注意：并发创建下单靠本函数不防重，主路径应走仓储层的原子计数器，
// 本函数用于计数器行的首次播种。
func NextSequence(locationPrefix string, existingCodes []string) (string, error) {
	maxSeq := 0
	for _, code := range existingCodes {
		if len(code) != CodeLength || !strings.HasPrefix(code, locationPrefix) {
			continue
		}
		n, err := strconv.Atoi(code[sequenceOffset:typeOffset])
		if err != nil {
			continue
		}
		if n > maxSeq {
			maxSeq = n
		}
	}
	if maxSeq >= MaxSequence {
		return "", fmt.Errorf("sequence space exhausted for prefix %s", locationPrefix)
	}
	return fmt.Sprintf("%05d", maxSeq+1), nil
}

// FallbackSequence 主查询不可用时的降级序号：毫秒时间戳末5位模99999加一
// 并发下不保证无碰撞，仅作降级路径
func FallbackSequence(now time.Time) string {
	ms := now.UnixMilli()
	return fmt.Sprintf("%05d", ms%MaxSequence+1)
}
