package model

import "regexp"

// ── 时间区间值类型 ──
//
// 课程表与活动排期均以"星期 + 当日时间段"描述每周固定时段。
// 时间统一使用补零的 "HH:MM" 字符串，字典序即时间序，
// 与数据库 time 列和前端 <input type="time"> 的取值一致。

// clockPattern 合法时刻格式：00:00 ~ 23:59，必须补零
var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsClock 判断 s 是否为合法的 "HH:MM" 时刻
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// IsWeekday 判断 d 是否为合法星期（1=周一 … 7=周日）
func IsWeekday(d int) bool {
	return d >= 1 && d <= 7
}

// TimeRange 某个星期内的半开时间区间 [Start, End)
type TimeRange struct {
	Start string // "08:00"
	End   string // "10:00"
}

// IsValid 区间合法：两端均为合法时刻且 Start < End
func (r TimeRange) IsValid() bool {
	return IsClock(r.Start) && IsClock(r.End) && r.Start < r.End
}

// Overlaps 半开区间重叠判定：[s1,e1) 与 [s2,e2) 重叠当且仅当 s1<e2 且 s2<e1。
// 端点相接（e1 == s2）不算重叠。
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start < other.End && other.Start < r.End
}
