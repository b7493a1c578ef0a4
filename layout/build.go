package layout

import "fmt"

// Build 串联折行与分页：先校验配置，再按正文宽度折行，最后分页生成计划。
func Build(text string, cfg Config, m Measurer) (*Plan, error) {
	if m == nil {
		return nil, ErrNoMeasurer
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("排版参数无效: %w", err)
	}
	lines := BreakLines(text, cfg.MaxLineWidth(), m, cfg.FontSize)
	return Paginate(lines, cfg, m), nil
}
