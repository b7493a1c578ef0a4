package renderer

import "github.com/ByLCY/text2pdf/layout"

// Renderer 将排版计划输出为最终文件，例如 PDF。
// Render 返回生成的二进制数据以及可能的错误；计划本身不会被修改。
type Renderer interface {
	Render(plan *layout.Plan) ([]byte, error)
}

// MeasuringRenderer 同时提供字形度量与渲染能力，一次转换使用一个实例。
type MeasuringRenderer interface {
	Renderer
	layout.Measurer
}
