package service

import "time"

// 日期层辅助函数：容量核算统一以"周一锚定的自然周"为单位，
// 所有日期比较均先规整到 UTC 零点，避免时区与时刻干扰。

const dateLayout = "2006-01-02"

// parseDate 解析 YYYY-MM-DD 日期字符串（UTC 零点）
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// toDate 将任意时刻规整为 UTC 零点的日期
func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart 回退到所在周的周一（周一锚定的周桶）
func weekStart(t time.Time) time.Time {
	d := toDate(t)
	// time.Weekday 周日为 0，转换为周一偏移
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// weekEnd 所在周的周日（闭区间末端）
func weekEnd(t time.Time) time.Time {
	return weekStart(t).AddDate(0, 0, 6)
}

// weeksInRange 枚举与 [start, end]（闭区间）相交的全部周桶起点
func weeksInRange(start, end time.Time) []time.Time {
	var weeks []time.Time
	for w := weekStart(start); !w.After(toDate(end)); w = w.AddDate(0, 0, 7) {
		weeks = append(weeks, w)
	}
	return weeks
}

// monthStart 所在月的第一天
func monthStart(t time.Time) time.Time {
	d := toDate(t)
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthEnd 所在月的最后一天
func monthEnd(t time.Time) time.Time {
	return monthStart(t).AddDate(0, 1, -1)
}

// isWeekend 是否为周末（周六/周日）
func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
