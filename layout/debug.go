package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将整篇文档的排版结果输出为 JSON，便于调试或比对断行决策。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
