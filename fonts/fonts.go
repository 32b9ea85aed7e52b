// Package fonts 提供内置的 Latin Modern 字体数据，免去随发行版携带字体文件。
package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
)

// DefaultName 是未指定字体时的缺省字族。
const DefaultName = "lmroman10-regular"

var builtin = map[string][]byte{
	"lmroman10-regular": lmroman10regular.TTF,
	"lmroman10-bold":    lmroman10bold.TTF,
	"lmroman10-italic":  lmroman10italic.TTF,
	"lmmono10-regular":  lmmono10regular.TTF,
}

// Load 返回内置字体的 TTF 字节数据。名称不区分大小写，空名称取默认字族。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultName
	}
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("未收录的内置字体 %q（可用：%s）", name, strings.Join(Names(), ", "))
	}
	return data, nil
}

// Names 返回全部内置字体名，按字典序排列。
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
