package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// Family 是可选的字体族句柄，由渲染器映射到具体字体。
type Family string

const (
	Serif     Family = "serif"
	SansSerif Family = "sans-serif"
	Monospace Family = "monospace"
)

// Families 返回所有支持的字体族，顺序固定。
func Families() []Family { return []Family{Serif, SansSerif, Monospace} }

// ParseFamily 将名称（大小写不敏感）解析为 Family。
func ParseFamily(name string) (Family, error) {
	f := Family(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case Serif, SansSerif, Monospace:
		return f, nil
	}
	return "", fmt.Errorf("未知的字体族 %q", name)
}

// Load 返回字体族对应的内置 TrueType 数据。
func Load(f Family) ([]byte, error) {
	switch f {
	case Serif:
		return lmroman10regular.TTF, nil
	case SansSerif:
		return goregular.TTF, nil
	case Monospace:
		return gomono.TTF, nil
	}
	return nil, fmt.Errorf("读取内置字体 %q 失败: 不支持的字体族", f)
}
