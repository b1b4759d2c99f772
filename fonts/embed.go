// Package fonts 提供内置字体，避免渲染时依赖系统字体。
package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmsans10bold"
	"github.com/go-fonts/latin-modern/lmsans10oblique"
	"github.com/go-fonts/latin-modern/lmsans10regular"
)

// Family 是内置字体族的名称。
const Family = "Latin Modern Sans"

var builtin = map[string][]byte{
	"regular": lmsans10regular.TTF,
	"bold":    lmsans10bold.TTF,
	"italic":  lmsans10oblique.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:bold" 或直接 "bold"。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, "embed:"))
	data, ok := builtin[key]
	if !ok {
		return nil, fmt.Errorf("unknown built-in font %q", name)
	}
	return data, nil
}

// Names 列出可用的内置字体。
func Names() []string { return []string{"regular", "bold", "italic"} }
