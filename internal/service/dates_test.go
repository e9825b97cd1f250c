package service

import (
	"testing"
	"time"
)

// ═══════════════════════════════════════════════════════════
// 周桶与日期辅助函数
// ═══════════════════════════════════════════════════════════

func TestWeekStart(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"周一取自身", date(2024, 1, 1), date(2024, 1, 1)},
		{"周三回退到周一", date(2024, 1, 3), date(2024, 1, 1)},
		{"周日回退六天", date(2024, 1, 7), date(2024, 1, 1)},
		{"跨月回退", date(2024, 3, 2), date(2024, 2, 26)},
		{"带时刻的输入先规整到零点", time.Date(2024, 1, 3, 23, 59, 0, 0, time.UTC), date(2024, 1, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := weekStart(tc.in)
			if !got.Equal(tc.want) {
				t.Errorf("weekStart(%s): 期望 %s, 实际 %s",
					tc.in.Format(dateLayout), tc.want.Format(dateLayout), got.Format(dateLayout))
			}
		})
	}
}

func TestWeekEnd(t *testing.T) {
	got := weekEnd(date(2024, 1, 3))
	if want := date(2024, 1, 7); !got.Equal(want) {
		t.Errorf("weekEnd: 期望 %s, 实际 %s", want.Format(dateLayout), got.Format(dateLayout))
	}
}

func TestWeeksInRange(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		want       []time.Time
	}{
		{"单日单周", date(2024, 1, 1), date(2024, 1, 1), []time.Time{date(2024, 1, 1)}},
		{"整周", date(2024, 1, 1), date(2024, 1, 7), []time.Time{date(2024, 1, 1)}},
		{"周日到周一跨两周", date(2024, 1, 7), date(2024, 1, 8), []time.Time{date(2024, 1, 1), date(2024, 1, 8)}},
		{"四周区间", date(2024, 3, 1), date(2024, 3, 20), []time.Time{
			date(2024, 2, 26), date(2024, 3, 4), date(2024, 3, 11), date(2024, 3, 18),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := weeksInRange(tc.start, tc.end)
			if len(got) != len(tc.want) {
				t.Fatalf("期望 %d 个周桶, 实际 %d 个", len(tc.want), len(got))
			}
			for i := range got {
				if !got[i].Equal(tc.want[i]) {
					t.Errorf("第 %d 个周桶: 期望 %s, 实际 %s",
						i, tc.want[i].Format(dateLayout), got[i].Format(dateLayout))
				}
			}
		})
	}
}

func TestMonthBounds(t *testing.T) {
	if got := monthStart(date(2024, 2, 15)); !got.Equal(date(2024, 2, 1)) {
		t.Errorf("monthStart: 期望 2024-02-01, 实际 %s", got.Format(dateLayout))
	}
	// 闰年二月
	if got := monthEnd(date(2024, 2, 15)); !got.Equal(date(2024, 2, 29)) {
		t.Errorf("monthEnd: 期望 2024-02-29, 实际 %s", got.Format(dateLayout))
	}
	if got := monthEnd(date(2023, 2, 1)); !got.Equal(date(2023, 2, 28)) {
		t.Errorf("monthEnd: 期望 2023-02-28, 实际 %s", got.Format(dateLayout))
	}
}

func TestIsWeekend(t *testing.T) {
	if isWeekend(date(2024, 1, 5)) {
		t.Error("2024-01-05 是周五, 不应判定为周末")
	}
	if !isWeekend(date(2024, 1, 6)) {
		t.Error("2024-01-06 是周六, 应判定为周末")
	}
	if !isWeekend(date(2024, 1, 7)) {
		t.Error("2024-01-07 是周日, 应判定为周末")
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("2024-03-04")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if !got.Equal(date(2024, 3, 4)) {
		t.Errorf("期望 2024-03-04 UTC 零点, 实际 %s", got)
	}
	if _, err := parseDate("2024/03/04"); err == nil {
		t.Error("非法格式应返回错误")
	}
}
