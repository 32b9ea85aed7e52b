package binding

import (
	"strings"
	"testing"
)

var sampleData = map[string]interface{}{
	"user": map[string]interface{}{"name": "Ada"},
	"items": []interface{}{
		map[string]interface{}{"title": "first"},
		map[string]interface{}{"title": "second"},
	},
	"count": 3,
}

// TestInterpolate 验证路径解析：嵌套字段、数组下标与数值格式化。
func TestInterpolate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, ${user.name}!", "Hello, Ada!"},
		{"${items[1].title}", "second"},
		{"total ${count}", "total 3"},
		{"${ user.name }", "Ada"},
		{"no placeholder", "no placeholder"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, sampleData); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q，期望 %q", tc.in, got, tc.want)
		}
	}
}

// TestInterpolateUnresolved 验证宽容模式：缺失路径与空数据保留原占位符。
func TestInterpolateUnresolved(t *testing.T) {
	if got := Interpolate("${missing.path}", sampleData); got != "${missing.path}" {
		t.Fatalf("缺失路径应保留占位符，实际 %q", got)
	}
	if got := Interpolate("${user.name}", nil); got != "${user.name}" {
		t.Fatalf("空数据应保留占位符，实际 %q", got)
	}
	if got := Interpolate("${items[9].title}", sampleData); got != "${items[9].title}" {
		t.Fatalf("越界下标应保留占位符，实际 %q", got)
	}
}

// TestInterpolateStrict 验证严格模式：未解析路径报错并全部列出，可解析时
// 与宽容模式结果一致。
func TestInterpolateStrict(t *testing.T) {
	got, err := InterpolateStrict("Hello, ${user.name}!", sampleData)
	if err != nil {
		t.Fatalf("可解析文本不应报错: %v", err)
	}
	if got != "Hello, Ada!" {
		t.Fatalf("严格模式结果不符: %q", got)
	}

	_, err = InterpolateStrict("${a.b} and ${c.d}", sampleData)
	if err == nil {
		t.Fatalf("未解析路径应报错")
	}
	if !strings.Contains(err.Error(), "a.b") || !strings.Contains(err.Error(), "c.d") {
		t.Fatalf("错误应列出全部未解析路径: %v", err)
	}
}
