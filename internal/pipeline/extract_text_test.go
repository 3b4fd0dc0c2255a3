package pipeline

import (
	"testing"

	"marinequote/internal"
)

func TestExtractFromText(t *testing.T) {
	text := `
询价单
1. MV1100-02-002A 侧车轴 数量:2
2. NJ313 圆柱滚子轴承 ×4
日期: 2025-03-15
订单号: OD-123456
感谢配合
`
	items := ExtractFromText(text)
	if len(items) != 2 {
		t.Fatalf("len=%d items=%+v", len(items), items)
	}

	if items[0].Identifier != "MV1100-02-002A" || items[0].Quantity != 2 {
		t.Fatalf("item0 bad: %+v", items[0])
	}
	if items[0].Name != "侧车轴" {
		t.Fatalf("name0=%q", items[0].Name)
	}
	if items[1].Identifier != "NJ313" || items[1].Quantity != 4 || items[1].Name != "圆柱滚子轴承" {
		t.Fatalf("item1 bad: %+v", items[1])
	}
	if items[0].Source != internal.SourceText {
		t.Fatalf("source=%s", items[0].Source)
	}
}

func TestExtractFromTextDedupes(t *testing.T) {
	items := ExtractFromText("1. NJ313 ×2\n2. NJ313 ×9")
	if len(items) != 1 {
		t.Fatalf("len=%d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("first occurrence should win, qty=%d", items[0].Quantity)
	}
}

func TestExtractFromTextDefaultsName(t *testing.T) {
	items := ExtractFromText("1. 135-01-003A")
	if len(items) != 1 {
		t.Fatalf("len=%d", len(items))
	}
	if items[0].Name != "未知备件" || items[0].Quantity != 1 {
		t.Fatalf("defaults bad: %+v", items[0])
	}
}

func TestExtractFromTextNeverPanicsOnJunk(t *testing.T) {
	junk := "\x00\xff\xfe\n\t\n💥 🚢\nNJ\n"
	if items := ExtractFromText(junk); len(items) != 0 {
		t.Fatalf("junk yielded %+v", items)
	}
}
