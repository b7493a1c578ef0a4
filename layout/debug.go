package layout

import (
	"encoding/json"
	"io"
	"os"
)

// WritePlanJSON 将排版计划以缩进 JSON 写入 w，便于调试或实时预览。
func WritePlanJSON(w io.Writer, plan *Plan) error {
	if plan == nil {
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}

// WriteDebugJSON 将排版计划输出到文件。
func WriteDebugJSON(plan *Plan, path string) error {
	if plan == nil {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePlanJSON(f, plan); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
