package service

import "hash/fnv"

// 展示颜色分配：实体 ID（技师/工单）→ 固定调色板中的颜色。
// 基于 FNV-1a 哈希而非列表下标，保证过滤条件变化、列表顺序变化时
// 同一实体的颜色不漂移。

var colorPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728",
	"#9467bd", "#8c564b", "#e377c2", "#17becf",
	"#bcbd22", "#aec7e8", "#ffbb78", "#98df8a",
	"#ff9896", "#c5b0d5", "#c49c94", "#f7b6d2",
}

// colorUnassigned 未分配占位事件的颜色
const colorUnassigned = "#9e9e9e"

// ColorFor 实体 ID 到展示颜色的纯函数映射
func ColorFor(id string) string {
	if id == "" {
		return colorUnassigned
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return colorPalette[h.Sum32()%uint32(len(colorPalette))]
}
