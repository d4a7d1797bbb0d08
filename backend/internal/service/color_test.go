package service

import "testing"

// ═══════════════════════════════════════
// 展示颜色分配测试
// ═══════════════════════════════════════

func TestColorFor_StableAcrossCalls(t *testing.T) {
	first := ColorFor("tech-a")
	for i := 0; i < 10; i++ {
		if got := ColorFor("tech-a"); got != first {
			t.Fatalf("同一 ID 的颜色不应变化: 期望 %s 实际 %s", first, got)
		}
	}
}

func TestColorFor_IndependentOfOtherEntities(t *testing.T) {
	// 颜色由 ID 哈希决定，与列表顺序、过滤条件无关
	alone := ColorFor("job-42")
	_ = ColorFor("job-1")
	_ = ColorFor("job-99")
	if got := ColorFor("job-42"); got != alone {
		t.Errorf("颜色不应受其他实体影响: 期望 %s 实际 %s", alone, got)
	}
}

func TestColorFor_EmptyIDUsesUnassignedColor(t *testing.T) {
	if got := ColorFor(""); got != colorUnassigned {
		t.Errorf("空 ID 应使用未分配占位色, 实际 %s", got)
	}
}

func TestColorFor_AlwaysInPalette(t *testing.T) {
	palette := make(map[string]bool, len(colorPalette))
	for _, c := range colorPalette {
		palette[c] = true
	}
	for _, id := range []string{"tech-a", "tech-b", "job-1", "client-1", "x"} {
		if c := ColorFor(id); !palette[c] {
			t.Errorf("ColorFor(%q) = %s 不在调色板内", id, c)
		}
	}
}
